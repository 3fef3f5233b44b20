package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common errors.
var (
	ErrReadOnly         = errors.New("storage is in read-only mode")
	ErrNotFound         = errors.New("key not found")
	ErrValidation       = errors.New("validation failed")
	ErrPersist          = errors.New("failed to persist notes")
	ErrNothingToExport  = errors.New("no notes to export")
	ErrWatchUnsupported = errors.New("storage does not support watching")
)

// ValidationError reports every invalid field of a rejected draft.
// Fields maps the field name ("title", "content") to a user-facing message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Unwrap lets callers match with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Has reports whether the given field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// IsPersistWarning reports whether err only signals a failed write.
// The in-memory mutation that produced it has already been applied.
func IsPersistWarning(err error) bool {
	return errors.Is(err, ErrPersist)
}
