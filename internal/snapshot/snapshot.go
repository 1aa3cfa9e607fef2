// Package snapshot captures the four record collections as one
// self-describing JSON document and restores them from it.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/afactura/internal/models"
)

// Version is the only snapshot layout this build reads and writes.
const Version = "1.0"

var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

type Data struct {
	Invoices []models.Invoice  `json:"invoices"`
	Clients  []models.Client   `json:"clients"`
	Logs     []models.AuditLog `json:"logs"`
	Settings []models.Setting  `json:"settings"`
}

// Snapshot is a point-in-time copy of the whole record store.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Data      Data      `json:"data"`
}

// normalize replaces nil collections with empty ones so they encode as [].
func (s *Snapshot) normalize() {
	if s.Data.Invoices == nil {
		s.Data.Invoices = []models.Invoice{}
	}
	if s.Data.Clients == nil {
		s.Data.Clients = []models.Client{}
	}
	if s.Data.Logs == nil {
		s.Data.Logs = []models.AuditLog{}
	}
	if s.Data.Settings == nil {
		s.Data.Settings = []models.Setting{}
	}
}

// Encode renders s as UTF-8 JSON.
func Encode(s *Snapshot) ([]byte, error) {
	s.normalize()
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode parses a snapshot and checks its version. Unknown fields are
// rejected.
func Decode(b []byte) (*Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, s.Version)
	}
	s.normalize()
	return &s, nil
}
