package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/afactura/internal/audit"
	"github.com/dmitrijs2005/afactura/internal/backup"
	"github.com/dmitrijs2005/afactura/internal/config"
	"github.com/dmitrijs2005/afactura/internal/logging"
	"github.com/dmitrijs2005/afactura/internal/repositories/auditlogs"
	"github.com/dmitrijs2005/afactura/internal/services"
	"github.com/dmitrijs2005/afactura/internal/session"
	"github.com/dmitrijs2005/afactura/internal/snapshot"
	"github.com/dmitrijs2005/afactura/internal/storage"
)

type App struct {
	config *config.Config
	db     *sql.DB
	logger logging.Logger
	trail  *audit.Dispatcher

	authService     services.AuthService
	clientService   services.ClientService
	invoiceService  services.InvoiceService
	settingsService services.SettingsService
	backupService   *backup.Service
	sink            backup.Sink

	session *session.Session
	reader  *bufio.Reader
	out     io.Writer
	now     func() time.Time
}

// NewApp opens the store and wires the services. The shell reads from
// stdin and writes to stdout.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	return newApp(ctx, c, logger, os.Stdin, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	db, err := storage.Open(ctx, storage.DSN(c.DatabasePath))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	sink, err := newSink(c)
	if err != nil {
		db.Close()
		return nil, err
	}

	recorder := audit.NewRecorder(auditlogs.NewSQLiteRepository(db))
	trail := audit.NewDispatcher(recorder, logger, c.AuditQueueSize, c.AuditWriteTimeout)

	a := &App{
		config: c,
		db:     db,
		logger: logger,
		trail:  trail,

		authService:     services.NewAuthService(db, trail, logger),
		clientService:   services.NewClientService(db, trail, logger),
		invoiceService:  services.NewInvoiceService(db, trail, logger, c.InvoiceSeries),
		settingsService: services.NewSettingsService(db, trail, logger),
		backupService:   backup.NewService(snapshot.NewAssembler(db), trail, logger),
		sink:            sink,

		reader: bufio.NewReader(in),
		out:    out,
		now:    time.Now,
	}

	seeded, err := a.clientService.SeedDefaults(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("seed clients: %w", err)
	}
	if seeded {
		logger.Info(ctx, "demo clients inserted")
	}

	return a, nil
}

// newSink writes backups to the backup directory and, when a bucket is
// configured, uploads a copy to S3.
func newSink(c *config.Config) (backup.Sink, error) {
	local := backup.FileSink{Dir: c.BackupDir}
	if !c.S3.Enabled() {
		return local, nil
	}
	remote, err := backup.NewS3Sink(backup.S3Config{
		Bucket:    c.S3.Bucket,
		Prefix:    c.S3.Prefix,
		Region:    c.S3.Region,
		Endpoint:  c.S3.Endpoint,
		AccessKey: c.S3.AccessKey,
		SecretKey: c.S3.SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 sink: %w", err)
	}
	return backup.MultiSink{local, remote}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) status() string {
	if a.session == nil {
		return ""
	}
	return a.session.User
}

// Run starts the shell and returns when the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn(headColor.Sprint("afactura - AGT invoicing"))
	printlnFn("Type 'help' for the list of commands.")
	runREPL(ctx, a, a.status, a.reader)
}

// Close drains pending audit entries and closes the store.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.trail.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("audit dispatcher: %w", err))
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}

func (a *App) ask(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) askDefault(prompt, def string) (string, error) {
	return GetTextDefault(a.reader, prompt, def, a.out)
}
