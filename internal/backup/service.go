package backup

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/afactura/internal/audit"
	"github.com/dmitrijs2005/afactura/internal/envelope"
	"github.com/dmitrijs2005/afactura/internal/logging"
	"github.com/dmitrijs2005/afactura/internal/session"
	"github.com/dmitrijs2005/afactura/internal/snapshot"
)

// Store reads and replaces the whole record store.
type Store interface {
	Assemble(ctx context.Context) (*snapshot.Snapshot, error)
	Disassemble(ctx context.Context, s *snapshot.Snapshot) error
}

// flusher is implemented by trails that can wait for queued entries, such
// as *audit.Dispatcher.
type flusher interface {
	Flush(ctx context.Context) error
}

// Artifact is a generated backup file.
type Artifact struct {
	Name      string
	Data      []byte
	CreatedAt time.Time
}

// FileName is the name of a backup created at t.
func FileName(t time.Time) string {
	return "afactura_backup_" + t.UTC().Format("2006-01-02") + envelope.Extension
}

// Service runs backups and restores. At most one of them runs at a time.
type Service struct {
	store  Store
	trail  audit.Trail
	logger logging.Logger
	now    func() time.Time

	busy atomic.Bool
}

func NewService(store Store, trail audit.Trail, logger logging.Logger) *Service {
	return &Service{
		store:  store,
		trail:  trail,
		logger: logger.With("component", "backup"),
		now:    time.Now,
	}
}

// Create assembles a snapshot and encrypts it under password. The password
// is checked before anything else happens, including the audit entry.
func (s *Service) Create(ctx context.Context, sess *session.Session, password []byte) (*Artifact, error) {
	if utf8.RuneCount(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrInProgress
	}
	defer s.busy.Store(false)

	actor := sess.Actor()
	s.trail.Dispatch(ctx, audit.ActionBackupInit, "Starting encrypted backup generation", actor)
	// the request itself belongs in the backup
	s.flush(ctx)

	art, err := s.create(ctx, password)
	if err != nil {
		s.logger.Error(ctx, "backup failed", "error", err)
		s.trail.Dispatch(ctx, audit.ActionBackupFail, fmt.Sprintf("Encryption failed: %v", err), actor)
		return nil, err
	}

	s.logger.Info(ctx, "backup created", "name", art.Name, "size", len(art.Data))
	s.trail.Dispatch(ctx, audit.ActionBackupSuccess, "Backup file generated successfully", actor)
	return art, nil
}

func (s *Service) create(ctx context.Context, password []byte) (*Artifact, error) {
	snap, err := s.store.Assemble(ctx)
	if err != nil {
		return nil, err
	}
	plain, err := snapshot.Encode(snap)
	if err != nil {
		return nil, err
	}
	blob, err := Encrypt(plain, password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &Artifact{Name: FileName(now), Data: blob, CreatedAt: now.UTC()}, nil
}

// Restore decrypts blob and replaces the record store with its contents.
// The trail is replaced along with everything else, so RESTORE_INIT is
// dispatched once the replace is over, carrying the start time, followed by
// the outcome.
func (s *Service) Restore(ctx context.Context, sess *session.Session, blob, password []byte) (*snapshot.Snapshot, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrInProgress
	}
	defer s.busy.Store(false)

	actor := sess.Actor()
	started := s.now()

	snap, err := s.restore(ctx, blob, password)
	s.trail.Dispatch(ctx, audit.ActionRestoreInit,
		fmt.Sprintf("Backup restore started at %s", started.UTC().Format(time.RFC3339)), actor)
	if err != nil {
		s.logger.Error(ctx, "restore failed", "error", err)
		s.trail.Dispatch(ctx, audit.ActionRestoreFail, fmt.Sprintf("Restore failed: %v", err), actor)
		return nil, err
	}

	s.logger.Info(ctx, "backup restored", "snapshot", snap.Timestamp)
	s.trail.Dispatch(ctx, audit.ActionRestoreSuccess,
		fmt.Sprintf("Backup from %s restored", snap.Timestamp.UTC().Format(time.RFC3339)), actor)
	return snap, nil
}

func (s *Service) restore(ctx context.Context, blob, password []byte) (*snapshot.Snapshot, error) {
	plain, err := Decrypt(blob, password)
	if err != nil {
		return nil, err
	}
	snap, err := snapshot.Decode(plain)
	if err != nil {
		return nil, err
	}
	if err := s.store.Disassemble(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Service) flush(ctx context.Context) {
	f, ok := s.trail.(flusher)
	if !ok {
		return
	}
	if err := f.Flush(ctx); err != nil {
		s.logger.Warn(ctx, "audit flush failed", "error", err)
	}
}
