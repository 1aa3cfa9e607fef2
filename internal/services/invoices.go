package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/afactura/internal/audit"
	"github.com/dmitrijs2005/afactura/internal/common"
	"github.com/dmitrijs2005/afactura/internal/dbx"
	"github.com/dmitrijs2005/afactura/internal/logging"
	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/dmitrijs2005/afactura/internal/repositories/invoices"
	"github.com/dmitrijs2005/afactura/internal/session"
	"github.com/dmitrijs2005/afactura/internal/storage"
	"github.com/google/uuid"
)

// DefaultSeries is used when neither the draft nor the service name one.
const DefaultSeries = "2025A"

// DefaultPaymentTerm is the gap between issue and due date when the draft
// has no due date.
const DefaultPaymentTerm = 30 * 24 * time.Hour

// trail actions kept inside each invoice document
const (
	invoiceCreated       = "CREATED"
	invoiceStatusChanged = "STATUS_CHANGE"
)

type ItemInput struct {
	Description     string
	Quantity        float64
	UnitPrice       float64
	TaxRate         models.TaxRate
	ExemptionReason string
}

// Draft is a new invoice as entered by the user. Zero values take
// defaults: type FT, today's date, a 30-day term, status Rascunho and
// payment in cash.
type Draft struct {
	Series        string
	Type          models.DocumentType
	Date          time.Time
	DueDate       time.Time
	ClientID      string
	Items         []ItemInput
	Status        models.InvoiceStatus
	PaymentMethod models.PaymentMethod
}

// Stats summarizes the invoice book.
type Stats struct {
	Count        int
	TotalRevenue float64
	Pending      int
	Drafts       int
	Daily        []DayTotal
}

type DayTotal struct {
	Day   string
	Total float64
}

type InvoiceService interface {
	Create(ctx context.Context, sess *session.Session, d Draft) (*models.Invoice, error)
	List(ctx context.Context) ([]models.Invoice, error)
	Get(ctx context.Context, id string) (*models.Invoice, error)
	SetStatus(ctx context.Context, sess *session.Session, id string, status models.InvoiceStatus) (*models.Invoice, error)
	Stats(ctx context.Context) (Stats, error)
}

type invoiceService struct {
	db     *sql.DB
	trail  audit.Trail
	logger logging.Logger
	series string
	now    func() time.Time
}

func NewInvoiceService(db *sql.DB, trail audit.Trail, logger logging.Logger, series string) InvoiceService {
	if series == "" {
		series = DefaultSeries
	}
	return &invoiceService{db: db, trail: trail, logger: logger, series: series, now: time.Now}
}

func (s *invoiceService) getRepo() invoices.Repository {
	return invoices.NewSQLiteRepository(s.db)
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: an invoice needs at least one item", common.ErrValidation)
	}
	for i, it := range items {
		switch {
		case strings.TrimSpace(it.Description) == "":
			return fmt.Errorf("%w: item %d has no description", common.ErrValidation, i+1)
		case it.Quantity <= 0:
			return fmt.Errorf("%w: item %d quantity must be positive", common.ErrValidation, i+1)
		case it.UnitPrice < 0:
			return fmt.Errorf("%w: item %d unit price must not be negative", common.ErrValidation, i+1)
		case !it.TaxRate.Valid():
			return fmt.Errorf("%w: item %d tax rate %d%% is not allowed", common.ErrValidation, i+1, it.TaxRate)
		}
	}
	return nil
}

func (s *invoiceService) applyDefaults(d *Draft) error {
	now := s.now().UTC()
	if d.Series = strings.TrimSpace(d.Series); d.Series == "" {
		d.Series = s.series
	}
	if d.Type == "" {
		d.Type = models.DocInvoice
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unknown document type %q", common.ErrValidation, d.Type)
	}
	if d.Date.IsZero() {
		d.Date = now
	}
	if d.DueDate.IsZero() {
		d.DueDate = d.Date.Add(DefaultPaymentTerm)
	}
	if d.DueDate.Before(d.Date) {
		return fmt.Errorf("%w: due date is before the invoice date", common.ErrValidation)
	}
	if d.Status == "" {
		d.Status = models.StatusDraft
	}
	if d.Status != models.StatusDraft && d.Status != models.StatusIssued {
		return fmt.Errorf("%w: new invoices must be %s or %s", common.ErrValidation, models.StatusDraft, models.StatusIssued)
	}
	if d.PaymentMethod == "" {
		d.PaymentMethod = models.PaymentCash
	}
	return nil
}

// Create validates d, numbers it as the next invoice of its series and
// stores it. Numbering and insertion happen in one transaction.
func (s *invoiceService) Create(ctx context.Context, sess *session.Session, d Draft) (*models.Invoice, error) {
	if strings.TrimSpace(d.ClientID) == "" {
		return nil, fmt.Errorf("%w: select a client", common.ErrValidation)
	}
	if err := validateItems(d.Items); err != nil {
		return nil, err
	}
	if err := s.applyDefaults(&d); err != nil {
		return nil, err
	}

	actor := sess.Actor()
	inv := &models.Invoice{
		ID:            uuid.NewString(),
		Series:        d.Series,
		Type:          d.Type,
		Date:          d.Date.UTC(),
		DueDate:       d.DueDate.UTC(),
		Currency:      models.Currency,
		Status:        d.Status,
		PaymentMethod: d.PaymentMethod,
	}
	for _, it := range d.Items {
		inv.Items = append(inv.Items, models.InvoiceItem{
			ID:              uuid.NewString(),
			Description:     strings.TrimSpace(it.Description),
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			TaxRate:         it.TaxRate,
			ExemptionReason: it.ExemptionReason,
		})
	}
	inv.Recalculate()
	inv.AuditTrail = []models.AuditLog{{
		Action:    invoiceCreated,
		User:      actor,
		Timestamp: s.now().UTC(),
		Detail:    fmt.Sprintf("Document created with status %s", inv.Status),
	}}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repos := storage.NewRepositories(tx)

		c, err := repos.Clients.Get(ctx, d.ClientID)
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: client %s does not exist", common.ErrValidation, d.ClientID)
		}
		if err != nil {
			return err
		}
		inv.ClientID = c.ID
		inv.ClientName = c.Name
		inv.ClientNIF = c.NIF
		inv.ClientAddress = c.Address

		last, err := repos.Invoices.MaxNumber(ctx, inv.Series)
		if err != nil {
			return err
		}
		inv.Number = last + 1

		return repos.Invoices.Add(ctx, inv)
	})
	if err != nil {
		s.logger.Error(ctx, "create invoice", "error", err)
		s.trail.Dispatch(ctx, audit.ActionInvoiceCreateFail, fmt.Sprintf("Invoice creation failed: %v", err), actor)
		return nil, err
	}

	s.trail.Dispatch(ctx, audit.ActionInvoiceCreate,
		fmt.Sprintf("Invoice %s created with status %s", inv.DocumentNo(), inv.Status), actor)
	return inv, nil
}

// List returns all invoices, highest number first.
func (s *invoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	return s.getRepo().List(ctx)
}

func (s *invoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	return s.getRepo().Get(ctx, id)
}

// SetStatus moves an invoice along its lifecycle. Paid and cancelled
// invoices are final.
func (s *invoiceService) SetStatus(ctx context.Context, sess *session.Session, id string, status models.InvoiceStatus) (*models.Invoice, error) {
	actor := sess.Actor()
	now := s.now().UTC()

	var inv *models.Invoice
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := invoices.NewSQLiteRepository(tx)

		var err error
		if inv, err = repo.Get(ctx, id); err != nil {
			return err
		}
		if !inv.Status.CanTransition(status) {
			return fmt.Errorf("%w: cannot change status from %s to %s", common.ErrValidation, inv.Status, status)
		}

		prev := inv.Status
		inv.Status = status
		if status == models.StatusAcceptedAGT {
			inv.AGTResponseTimestamp = &now
		}
		inv.AuditTrail = append(inv.AuditTrail, models.AuditLog{
			Action:    invoiceStatusChanged,
			User:      actor,
			Timestamp: now,
			Detail:    fmt.Sprintf("Status changed from %s to %s", prev, status),
		})
		return repo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.trail.Dispatch(ctx, audit.ActionInvoiceStatus,
		fmt.Sprintf("Invoice %s status changed to %s", inv.DocumentNo(), inv.Status), actor)
	return inv, nil
}

// Stats computes the dashboard figures. Revenue excludes drafts and
// cancelled invoices; Daily holds the revenue of the last seven invoice
// dates, oldest first.
func (s *invoiceService) Stats(ctx context.Context) (Stats, error) {
	list, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{Count: len(list)}
	byDay := map[string]float64{}
	for _, inv := range list {
		switch inv.Status {
		case models.StatusDraft:
			st.Drafts++
			continue
		case models.StatusCancelled:
			continue
		case models.StatusIssued:
			st.Pending++
		}
		st.TotalRevenue += inv.Total
		byDay[inv.Date.UTC().Format("2006-01-02")] += inv.Total
	}
	st.TotalRevenue = models.RoundMoney(st.TotalRevenue)

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	slices.Sort(days)
	if len(days) > 7 {
		days = days[len(days)-7:]
	}
	for _, d := range days {
		st.Daily = append(st.Daily, DayTotal{Day: d, Total: models.RoundMoney(byDay[d])})
	}
	return st, nil
}
