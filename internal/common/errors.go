// Package common defines sentinel errors and small helpers shared by the
// afactura packages. Callers should match errors with errors.Is / errors.As.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
)

// StoreError reports a failed read or write against one of the record
// collections (invoices, clients, logs, settings).
type StoreError struct {
	Collection string
	Op         string
	Err        error
}

// NewStoreError wraps err as a *StoreError. A nil err yields nil.
func NewStoreError(collection, op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Collection: collection, Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err (or anything it wraps) is a *StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
