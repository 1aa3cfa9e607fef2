package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/afactura/internal/common"
)

func (a *App) Backup(ctx context.Context) error {
	password, err := GetPassword("Backup password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	again, err := GetPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	if !bytes.Equal(password, again) {
		return fmt.Errorf("%w: passwords do not match", common.ErrValidation)
	}

	art, err := a.backupService.Create(ctx, a.session, password)
	if err != nil {
		return err
	}

	loc, err := a.sink.Save(ctx, art.Name, art.Data)
	if err != nil {
		return fmt.Errorf("save backup: %w", err)
	}
	a.success("Backup saved to %s", loc)
	a.warn("Keep the password safe: the backup cannot be opened without it.")
	return nil
}

func (a *App) Restore(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: restore <file>", common.ErrValidation)
	}
	path := strings.Join(args, " ")

	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	a.warn("Restoring replaces ALL invoices, clients, settings and audit entries.")
	ok, err := Confirm(a.reader, "Continue?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Restore cancelled.")
		return nil
	}

	password, err := GetPassword("Backup password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	snap, err := a.backupService.Restore(ctx, a.session, blob, password)
	if err != nil {
		return err
	}

	if p, err := a.settingsService.Profile(ctx); err == nil {
		a.session.Profile = p
	} else {
		a.logger.Warn(ctx, "reload profile after restore", "error", err)
	}

	a.success("Backup from %s restored: %d invoices, %d clients, %d audit entries.",
		snap.Timestamp.Local().Format(time.DateTime),
		len(snap.Data.Invoices), len(snap.Data.Clients), len(snap.Data.Logs))
	return nil
}
