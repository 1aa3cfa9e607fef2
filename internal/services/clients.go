package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/afactura/internal/audit"
	"github.com/dmitrijs2005/afactura/internal/common"
	"github.com/dmitrijs2005/afactura/internal/logging"
	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/dmitrijs2005/afactura/internal/repositories/clients"
	"github.com/dmitrijs2005/afactura/internal/session"
	"github.com/google/uuid"
)

// ClientInput is what the user types to create a client.
type ClientInput struct {
	Name    string
	NIF     string
	Email   string
	Phone   string
	Address string
}

type ClientService interface {
	Add(ctx context.Context, sess *session.Session, in ClientInput) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Search(ctx context.Context, term string) ([]models.Client, error)
	SeedDefaults(ctx context.Context) (bool, error)
}

type clientService struct {
	db     *sql.DB
	trail  audit.Trail
	logger logging.Logger
}

func NewClientService(db *sql.DB, trail audit.Trail, logger logging.Logger) ClientService {
	return &clientService{db: db, trail: trail, logger: logger}
}

func (s *clientService) getRepo() clients.Repository {
	return clients.NewSQLiteRepository(s.db)
}

func (s *clientService) Add(ctx context.Context, sess *session.Session, in ClientInput) (*models.Client, error) {
	c := &models.Client{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(in.Name),
		NIF:     strings.TrimSpace(in.NIF),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	}
	if c.Name == "" || c.NIF == "" {
		return nil, fmt.Errorf("%w: client name and NIF are required", common.ErrValidation)
	}

	if err := s.getRepo().Add(ctx, c); err != nil {
		s.logger.Error(ctx, "add client", "error", err)
		s.trail.Dispatch(ctx, audit.ActionClientAddFail, fmt.Sprintf("Failed to add client %s: %v", c.Name, err), sess.Actor())
		return nil, err
	}

	s.trail.Dispatch(ctx, audit.ActionClientAdd, fmt.Sprintf("Client %s added", c.Name), sess.Actor())
	return c, nil
}

func (s *clientService) List(ctx context.Context) ([]models.Client, error) {
	return s.getRepo().List(ctx)
}

// Search matches term against the client name, case-insensitively, and
// the NIF. An empty term lists everything.
func (s *clientService) Search(ctx context.Context, term string) ([]models.Client, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}
	return s.getRepo().Search(ctx, term)
}

// SeedDefaults inserts the demo clients into an empty store and reports
// whether it did.
func (s *clientService) SeedDefaults(ctx context.Context) (bool, error) {
	repo := s.getRepo()
	n, err := repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := repo.BulkAdd(ctx, models.DemoClients()); err != nil {
		return false, err
	}
	return true, nil
}
