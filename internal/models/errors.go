package models

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a missing case, catalog entry or record.
var ErrNotFound = errors.New("not found")

// ValidationError reports a malformed request, surfaced before any
// external call is made.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// ServiceError wraps a failure of an external provider call
// (embedding or completion). Op names the failing operation.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *ServiceError) Unwrap() error { return e.Err }
