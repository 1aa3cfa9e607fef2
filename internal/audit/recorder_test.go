package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/dmitrijs2005/afactura/internal/repositories/auditlogs"
	"github.com/dmitrijs2005/afactura/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*sql.DB, auditlogs.Repository) {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, auditlogs.NewSQLiteRepository(db)
}

// stepClock returns the given instants in order, then repeats the last one.
func stepClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		ts := times[i]
		if i < len(times)-1 {
			i++
		}
		return ts
	}
}

func TestRecorder_NSequentialRecordsInOrder(t *testing.T) {
	ctx := context.Background()
	_, repo := setupRepo(t)
	rec := NewRecorder(repo)

	const n = 25
	for i := 0; i < n; i++ {
		_, err := rec.Record(ctx, Entry{Action: ActionClientAdd, Detail: fmt.Sprintf("Client %d added", i)})
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, n)
	for i, e := range list {
		assert.Equal(t, fmt.Sprintf("Client %d added", i), e.Detail)
		assert.Equal(t, models.DefaultUser, e.User)
		if i > 0 {
			assert.Greater(t, e.ID, list[i-1].ID)
			assert.False(t, e.Timestamp.Before(list[i-1].Timestamp), "timestamps must not decrease")
		}
	}
}

func TestRecorder_ClampsBackwardsClock(t *testing.T) {
	ctx := context.Background()
	_, repo := setupRepo(t)
	rec := NewRecorder(repo)

	t1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec.now = stepClock(t1, t1.Add(-time.Hour))

	a, err := rec.Record(ctx, Entry{Action: ActionLogin, Detail: "User logged in", User: "ana"})
	require.NoError(t, err)
	b, err := rec.Record(ctx, Entry{Action: ActionLogout, Detail: "User logged out", User: "ana"})
	require.NoError(t, err)

	assert.True(t, a.Timestamp.Equal(t1))
	assert.True(t, b.Timestamp.Equal(t1), "clock going backwards must be clamped")
	assert.Equal(t, "ana", b.User)
}

func TestRecorder_ChainLinksAndVerifies(t *testing.T) {
	ctx := context.Background()
	_, repo := setupRepo(t)
	rec := NewRecorder(repo)

	first, err := rec.Record(ctx, Entry{Action: ActionBackupInit, Detail: "Starting encrypted backup generation"})
	require.NoError(t, err)
	second, err := rec.Record(ctx, Entry{Action: ActionBackupSuccess, Detail: "Backup file generated successfully"})
	require.NoError(t, err)

	assert.Equal(t, ChainToken("", *first), first.Hash)
	assert.Equal(t, ChainToken(first.Hash, *second), second.Hash)
	assert.Len(t, second.Hash, 64)

	rep, err := Verify(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Checked)
	assert.Zero(t, rep.BrokenAt)
}

func TestVerify_DetectsTampering(t *testing.T) {
	ctx := context.Background()
	db, repo := setupRepo(t)
	rec := NewRecorder(repo)

	var ids []int64
	for i := 0; i < 4; i++ {
		e, err := rec.Record(ctx, Entry{Action: ActionInvoiceCreate, Detail: fmt.Sprintf("Invoice 2025A/%d created with status Emitida", i+1)})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	_, err := db.Exec(`UPDATE audit_logs SET detail = 'Invoice 2025A/3 created with status Rascunho' WHERE id = ?`, ids[2])
	require.NoError(t, err)

	rep, err := Verify(ctx, repo)
	require.ErrorIs(t, err, ErrChainBroken)
	assert.Equal(t, 2, rep.Checked)
	assert.Equal(t, ids[2], rep.BrokenAt)
}

func TestVerifyEntries_LegacyRandomTokensFail(t *testing.T) {
	entries := []models.AuditLog{{ID: 1, Action: "LOGIN", User: "Admin", Detail: "User logged in", Hash: "5f0c3c8e-0c5e-4d8e-9f1e-1b2f0a6f2d11"}}

	rep, err := VerifyEntries(entries)
	require.ErrorIs(t, err, ErrChainBroken)
	assert.Equal(t, int64(1), rep.BrokenAt)

	rep, err = VerifyEntries(nil)
	require.NoError(t, err)
	assert.Zero(t, rep.Checked)
}

type failingRepo struct {
	auditlogs.Repository
	err error
}

func (f failingRepo) Last(ctx context.Context) (*models.AuditLog, error) { return nil, nil }
func (f failingRepo) Append(ctx context.Context, e *models.AuditLog) (int64, error) {
	return 0, f.err
}

func TestRecorder_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("disk full")
	rec := NewRecorder(failingRepo{err: boom})

	e, err := rec.Record(context.Background(), Entry{Action: ActionLogin})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, e)
}
