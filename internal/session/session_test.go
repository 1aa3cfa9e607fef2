package session

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestActor(t *testing.T) {
	var nilSess *Session
	assert.Equal(t, models.DefaultUser, nilSess.Actor())
	assert.Equal(t, models.DefaultUser, (&Session{}).Actor())
	assert.Equal(t, "ana", New("ana", models.DefaultCompanyProfile(), time.Now()).Actor())
}

func TestNew_StoresUTC(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	s := New("ana", models.DefaultCompanyProfile(), time.Date(2025, 1, 1, 10, 0, 0, 0, loc))
	assert.Equal(t, time.UTC, s.StartedAt.Location())
	assert.Equal(t, 9, s.StartedAt.Hour())
	assert.Equal(t, "Minha Empresa, Lda", s.Profile.Name)
}
