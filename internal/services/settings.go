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
	"github.com/dmitrijs2005/afactura/internal/repositories/auditlogs"
	"github.com/dmitrijs2005/afactura/internal/repositories/settings"
	"github.com/dmitrijs2005/afactura/internal/session"
)

// DefaultLogLimit is the number of entries RecentLogs returns when asked
// for zero or fewer.
const DefaultLogLimit = 100

// SettingsService manages the company profile and gives read access to the
// audit trail.
type SettingsService interface {
	Profile(ctx context.Context) (models.CompanyProfile, error)
	SaveProfile(ctx context.Context, sess *session.Session, p models.CompanyProfile) error
	RecentLogs(ctx context.Context, n int) ([]models.AuditLog, error)
	VerifyTrail(ctx context.Context) (audit.Report, error)
}

type settingsService struct {
	db     *sql.DB
	trail  audit.Trail
	logger logging.Logger
}

func NewSettingsService(db *sql.DB, trail audit.Trail, logger logging.Logger) SettingsService {
	return &settingsService{db: db, trail: trail, logger: logger}
}

// loadProfile returns the stored profile, storing the default one first if
// there is none.
func loadProfile(ctx context.Context, repo settings.Repository) (models.CompanyProfile, error) {
	st, err := repo.Get(ctx, models.SettingProfile)
	if err != nil {
		return models.CompanyProfile{}, err
	}
	if st != nil && st.Profile != nil {
		return *st.Profile, nil
	}

	p := models.DefaultCompanyProfile()
	if err := repo.Put(ctx, models.ProfileSetting(p)); err != nil {
		return models.CompanyProfile{}, err
	}
	return p, nil
}

func (s *settingsService) Profile(ctx context.Context) (models.CompanyProfile, error) {
	return loadProfile(ctx, settings.NewSQLiteRepository(s.db))
}

func validateProfile(p *models.CompanyProfile) error {
	p.Name = strings.TrimSpace(p.Name)
	p.NIF = strings.TrimSpace(p.NIF)
	if p.Name == "" || p.NIF == "" {
		return fmt.Errorf("%w: company name and NIF are required", common.ErrValidation)
	}
	if p.Regime == "" {
		p.Regime = models.RegimeGeneral
	}
	if !p.Regime.Valid() {
		return fmt.Errorf("%w: unknown tax regime %q", common.ErrValidation, p.Regime)
	}
	if p.RetentionYears < 0 {
		return fmt.Errorf("%w: retention years must not be negative", common.ErrValidation)
	}
	return nil
}

// SaveProfile validates and stores p, and updates the session's copy.
func (s *settingsService) SaveProfile(ctx context.Context, sess *session.Session, p models.CompanyProfile) error {
	if err := validateProfile(&p); err != nil {
		return err
	}

	if err := settings.NewSQLiteRepository(s.db).Put(ctx, models.ProfileSetting(p)); err != nil {
		s.logger.Error(ctx, "save profile", "error", err)
		s.trail.Dispatch(ctx, audit.ActionSettingsUpdateFail, fmt.Sprintf("Company profile update failed: %v", err), sess.Actor())
		return err
	}

	if sess != nil {
		sess.Profile = p
	}
	s.trail.Dispatch(ctx, audit.ActionSettingsUpdate, "Company profile updated", sess.Actor())
	return nil
}

// RecentLogs returns the latest n audit entries, newest first.
func (s *settingsService) RecentLogs(ctx context.Context, n int) ([]models.AuditLog, error) {
	if n <= 0 {
		n = DefaultLogLimit
	}
	return auditlogs.NewSQLiteRepository(s.db).Latest(ctx, n)
}

func (s *settingsService) VerifyTrail(ctx context.Context) (audit.Report, error) {
	return audit.Verify(ctx, auditlogs.NewSQLiteRepository(s.db))
}
