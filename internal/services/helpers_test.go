package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/afactura/internal/audit"
	"github.com/dmitrijs2005/afactura/internal/logging"
	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/dmitrijs2005/afactura/internal/session"
	"github.com/dmitrijs2005/afactura/internal/storage"
	"github.com/stretchr/testify/require"
)

type event struct {
	Action audit.Action
	Detail string
	User   string
}

type recordingTrail struct {
	mu     sync.Mutex
	events []event
}

func (r *recordingTrail) Dispatch(_ context.Context, a audit.Action, detail, user string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{a, detail, user})
}

func (r *recordingTrail) last() event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return event{}
	}
	return r.events[len(r.events)-1]
}

func (r *recordingTrail) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var testNow = time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

func testSession() *session.Session {
	return session.New("ana", models.DefaultCompanyProfile(), testNow)
}

func nopLogger() logging.Logger { return logging.NewNop() }
