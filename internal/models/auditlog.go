package models

import "time"

// DefaultUser is recorded when an action has no authenticated user.
const DefaultUser = "Admin"

// TimestampLayout is the fixed-width UTC form used to store and hash audit
// timestamps. It sorts lexicographically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// AuditLog is one entry of the append-only audit trail. Hash is the chain
// token linking the entry to its predecessor.
type AuditLog struct {
	ID        int64     `json:"id,omitempty"`
	Action    string    `json:"action"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail"`
	Hash      string    `json:"hash,omitempty"`
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses any RFC 3339 timestamp, including TimestampLayout.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
