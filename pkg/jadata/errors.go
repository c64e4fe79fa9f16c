package jadata

import (
	"errors"
	"fmt"
)

// Data-integrity violations. A run that hits one of these is aborted.
var (
	ErrMissingEntry     = errors.New("no skeleton entry")
	ErrMultiCodepoint   = errors.New("multi-codepoint literal")
	ErrDuplicateLiteral = errors.New("repeated literal")
	ErrDuplicateID      = errors.New("repeated id")
	ErrInvalidID        = errors.New("invalid sequence id")
	ErrNoRevision       = errors.New("no revision found in jmdict file")
	ErrIDOverflow       = errors.New("id space exhausted")
)

// IntegrityError ties a violation to the record that caused it.
type IntegrityError struct {
	Err error
	Key string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Key)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// NewIntegrityError wraps err with the offending key.
func NewIntegrityError(err error, key string) *IntegrityError {
	return &IntegrityError{Err: err, Key: key}
}
