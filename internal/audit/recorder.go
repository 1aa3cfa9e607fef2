package audit

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/dmitrijs2005/afactura/internal/repositories/auditlogs"
)

// Entry is a request to record one action.
type Entry struct {
	Action Action
	Detail string
	// User defaults to models.DefaultUser when empty.
	User string
	// At defaults to the recorder clock when zero.
	At time.Time
}

// Recorder appends chained entries to the log repository. It serializes
// its own writes; the store is assumed to have no other writer.
type Recorder struct {
	repo auditlogs.Repository
	now  func() time.Time

	mu sync.Mutex
}

func NewRecorder(repo auditlogs.Repository) *Recorder {
	return &Recorder{repo: repo, now: time.Now}
}

// Record appends exactly one entry and returns it with its store id and
// chain token. The timestamp is clamped so it never precedes the previous
// entry.
func (r *Recorder) Record(ctx context.Context, e Entry) (*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := strings.TrimSpace(e.User)
	if user == "" {
		user = models.DefaultUser
	}
	at := e.At
	if at.IsZero() {
		at = r.now()
	}
	at = at.UTC().Truncate(time.Microsecond)

	last, err := r.repo.Last(ctx)
	if err != nil {
		return nil, err
	}

	prev := ""
	if last != nil {
		prev = last.Hash
		if at.Before(last.Timestamp) {
			at = last.Timestamp
		}
	}

	entry := &models.AuditLog{
		Action:    string(e.Action),
		User:      user,
		Timestamp: at,
		Detail:    e.Detail,
	}
	entry.Hash = ChainToken(prev, *entry)

	if _, err := r.repo.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
