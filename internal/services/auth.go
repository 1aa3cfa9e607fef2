package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/afactura/internal/audit"
	"github.com/dmitrijs2005/afactura/internal/common"
	"github.com/dmitrijs2005/afactura/internal/cryptox"
	"github.com/dmitrijs2005/afactura/internal/logging"
	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/dmitrijs2005/afactura/internal/repositories/settings"
	"github.com/dmitrijs2005/afactura/internal/session"
)

// AuthService opens and closes sessions.
//
// The first successful login on an empty store enrolls the given username
// and password; later logins must match them.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (*session.Session, error)
	Logout(ctx context.Context, sess *session.Session)
}

type authService struct {
	db     *sql.DB
	trail  audit.Trail
	logger logging.Logger
	now    func() time.Time
}

func NewAuthService(db *sql.DB, trail audit.Trail, logger logging.Logger) AuthService {
	return &authService{db: db, trail: trail, logger: logger, now: time.Now}
}

func (a *authService) getSettingsRepo() settings.Repository {
	return settings.NewSQLiteRepository(a.db)
}

func (a *authService) Login(ctx context.Context, username string, password []byte) (*session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	repo := a.getSettingsRepo()

	st, err := repo.Get(ctx, models.SettingCredentials)
	if err != nil {
		return nil, err
	}

	if st == nil {
		if err := a.enroll(ctx, repo, username, password); err != nil {
			return nil, err
		}
		a.logger.Info(ctx, "credentials enrolled", "user", username)
	} else {
		c := st.Credentials
		if !strings.EqualFold(c.Username, username) || !cryptox.CheckPassword(password, c.Salt, c.Verifier) {
			a.trail.Dispatch(ctx, audit.ActionLoginFail, fmt.Sprintf("Failed login attempt for %s", username), username)
			return nil, common.ErrUnauthorized
		}
		username = c.Username
	}

	profile, err := loadProfile(ctx, repo)
	if err != nil {
		return nil, err
	}

	sess := session.New(username, profile, a.now())
	a.trail.Dispatch(ctx, audit.ActionLogin, "User logged in successfully", sess.Actor())
	return sess, nil
}

func (a *authService) enroll(ctx context.Context, repo settings.Repository, username string, password []byte) error {
	salt, err := common.RandomBytes(cryptox.LoginSaltSize)
	if err != nil {
		return err
	}
	key := cryptox.DeriveLoginKey(password, salt)
	defer common.WipeByteArray(key)

	return repo.Put(ctx, models.CredentialsSetting(models.Credentials{
		Username: username,
		Salt:     salt,
		Verifier: cryptox.MakeVerifier(key),
	}))
}

func (a *authService) Logout(ctx context.Context, sess *session.Session) {
	a.trail.Dispatch(ctx, audit.ActionLogout, "User logged out", sess.Actor())
}
