// Package session holds the state of a logged-in user. A Session is
// created at login and passed explicitly to every operation that needs to
// attribute an action or read the company profile.
package session

import (
	"time"

	"github.com/dmitrijs2005/afactura/internal/models"
)

type Session struct {
	User      string
	Profile   models.CompanyProfile
	StartedAt time.Time
}

func New(user string, profile models.CompanyProfile, now time.Time) *Session {
	return &Session{User: user, Profile: profile, StartedAt: now.UTC()}
}

// Actor is the name recorded in audit entries. A nil session or an empty
// user is recorded as models.DefaultUser.
func (s *Session) Actor() string {
	if s == nil || s.User == "" {
		return models.DefaultUser
	}
	return s.User
}
