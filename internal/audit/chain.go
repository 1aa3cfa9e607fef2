package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/dmitrijs2005/afactura/internal/repositories/auditlogs"
)

var ErrChainBroken = errors.New("audit chain broken")

// chainContent fixes the hashed fields and their order; json.Marshal of a
// struct is deterministic.
type chainContent struct {
	Action    string `json:"action"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
	Detail    string `json:"detail"`
}

// ChainToken computes the token of e given the token of its predecessor.
func ChainToken(prev string, e models.AuditLog) string {
	content, _ := json.Marshal(chainContent{
		Action:    e.Action,
		User:      e.User,
		Timestamp: models.FormatTimestamp(e.Timestamp),
		Detail:    e.Detail,
	})

	h := sha256.New()
	h.Write([]byte(prev))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// Report summarizes a chain verification.
type Report struct {
	Checked  int
	BrokenAt int64
}

// VerifyEntries checks entries, which must be in insertion order. On the
// first mismatch it returns ErrChainBroken with BrokenAt set to that
// entry's id.
func VerifyEntries(entries []models.AuditLog) (Report, error) {
	var (
		rep  Report
		prev string
	)
	for _, e := range entries {
		if ChainToken(prev, e) != e.Hash {
			rep.BrokenAt = e.ID
			return rep, fmt.Errorf("%w at entry %d (%s)", ErrChainBroken, e.ID, e.Action)
		}
		rep.Checked++
		prev = e.Hash
	}
	return rep, nil
}

// Verify loads the whole trail from repo and checks it.
func Verify(ctx context.Context, repo auditlogs.Repository) (Report, error) {
	entries, err := repo.List(ctx)
	if err != nil {
		return Report{}, err
	}
	return VerifyEntries(entries)
}
