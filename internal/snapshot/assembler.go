package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/afactura/internal/dbx"
	"github.com/dmitrijs2005/afactura/internal/storage"
)

// Assembler reads and replaces the whole record store.
type Assembler struct {
	db  dbx.TxBeginner
	now func() time.Time
}

func NewAssembler(db dbx.TxBeginner) *Assembler {
	return &Assembler{db: db, now: time.Now}
}

// Assemble reads all four collections inside one transaction. If any
// read fails no snapshot is returned.
func (a *Assembler) Assemble(ctx context.Context) (*Snapshot, error) {
	s := &Snapshot{
		Timestamp: a.now().UTC(),
		Version:   Version,
	}

	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repos := storage.NewRepositories(tx)

		var err error
		if s.Data.Invoices, err = repos.Invoices.List(ctx); err != nil {
			return err
		}
		if s.Data.Clients, err = repos.Clients.List(ctx); err != nil {
			return err
		}
		if s.Data.Logs, err = repos.Logs.List(ctx); err != nil {
			return err
		}
		if s.Data.Settings, err = repos.Settings.List(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.normalize()
	return s, nil
}

// Disassemble replaces every collection with the contents of s. The
// replacement is a single transaction: on error nothing changes.
func (a *Assembler) Disassemble(ctx context.Context, s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("restore: nil snapshot")
	}
	if s.Version != Version {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, s.Version)
	}

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repos := storage.NewRepositories(tx)

		if err := repos.Invoices.Clear(ctx); err != nil {
			return err
		}
		if err := repos.Clients.Clear(ctx); err != nil {
			return err
		}
		if err := repos.Logs.Clear(ctx); err != nil {
			return err
		}
		if err := repos.Settings.Clear(ctx); err != nil {
			return err
		}

		if err := repos.Clients.BulkAdd(ctx, s.Data.Clients); err != nil {
			return err
		}
		if err := repos.Invoices.BulkAdd(ctx, s.Data.Invoices); err != nil {
			return err
		}
		if err := repos.Logs.BulkAdd(ctx, s.Data.Logs); err != nil {
			return err
		}
		for _, st := range s.Data.Settings {
			if err := repos.Settings.Put(ctx, st); err != nil {
				return err
			}
		}
		return nil
	})
}
