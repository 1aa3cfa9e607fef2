package audit

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/afactura/internal/logging"
	"github.com/dmitrijs2005/afactura/internal/models"
)

// Trail is what services use to report actions. Dispatch never blocks on
// storage and never returns an error.
type Trail interface {
	Dispatch(ctx context.Context, action Action, detail, user string)
}

type appender interface {
	Record(ctx context.Context, e Entry) (*models.AuditLog, error)
}

type job struct {
	ctx     context.Context
	entry   Entry
	flushed chan struct{}
}

// Dispatcher queues entries and writes them in FIFO order from a single
// background goroutine. Write failures and drops go to the logger.
type Dispatcher struct {
	rec     appender
	logger  logging.Logger
	timeout time.Duration
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	queue  chan job
	done   chan struct{}
}

// NewDispatcher starts the background writer. queueSize bounds the number
// of pending entries; writeTimeout bounds each write.
func NewDispatcher(rec appender, logger logging.Logger, queueSize int, writeTimeout time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	d := &Dispatcher{
		rec:     rec,
		logger:  logger.With("component", "audit"),
		timeout: writeTimeout,
		now:     time.Now,
		queue:   make(chan job, queueSize),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Dispatch enqueues an entry stamped with the current time. If the queue
// is full or the dispatcher is closed the entry is dropped and logged.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action, detail, user string) {
	e := Entry{Action: action, Detail: detail, User: user, At: d.now()}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn(ctx, "audit entry dropped: dispatcher closed", "action", string(action), "detail", detail)
		return
	}

	select {
	case d.queue <- job{ctx: ctx, entry: e}:
	default:
		d.logger.Error(ctx, "audit entry dropped: queue full", "action", string(action), "detail", detail)
	}
}

// Flush blocks until every entry dispatched before the call is written
// (or failed), or ctx is done.
func (d *Dispatcher) Flush(ctx context.Context) error {
	ch := make(chan struct{})

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return nil
	}
	select {
	case d.queue <- job{flushed: ch}:
	case <-ctx.Done():
		d.mu.RUnlock()
		return ctx.Err()
	}
	d.mu.RUnlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting entries, drains the queue and waits for the
// writer to exit.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.queue {
		if j.flushed != nil {
			close(j.flushed)
			continue
		}
		d.write(j)
	}
}

func (d *Dispatcher) write(j job) {
	parent := j.ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.timeout)
	defer cancel()

	if _, err := d.rec.Record(ctx, j.entry); err != nil {
		d.logger.Error(ctx, "audit write failed",
			"action", string(j.entry.Action), "detail", j.entry.Detail, "error", err)
	}
}
