// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBusy is returned when the same operation is already in flight for a workspace.
	ErrBusy               = errors.New("operation already in progress")
	ErrInvalidChannel     = errors.New("invalid channel")
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrSessionNotFound    = errors.New("session not found")
)

// ValidationError lists the required composer fields that were left empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// PersistenceError means the store rejected a campaign insert.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist campaign: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// FetchError means the store rejected the campaign list read.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("load campaigns: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func NewValidation(missing ...string) error {
	return &ValidationError{Missing: missing}
}

func NewPersistence(err error) error {
	return &PersistenceError{Err: err}
}

func NewFetch(err error) error {
	return &FetchError{Err: err}
}
