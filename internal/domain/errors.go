package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals missing or malformed settings. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrSchema signals an invalid index definition.
	ErrSchema = errors.New("invalid schema")
	// ErrService signals a failure reported by or while reaching the search service.
	ErrService = errors.New("search service error")
	// ErrValidation signals invalid caller input, detected before any service call.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized signals rejected service credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrIndexNotFound signals that the target index does not exist.
	ErrIndexNotFound = errors.New("index not found")
	// ErrIndexExists signals that an index with the same name is already present.
	ErrIndexExists = errors.New("index already exists")
	// ErrTransient marks failures that were retried and may succeed later.
	ErrTransient = errors.New("transient failure")
)

// ServiceError carries the failing operation and index for diagnostics.
// It matches both ErrService and its cause under errors.Is.
type ServiceError struct {
	Op    string
	Index string
	Err   error
}

func (e *ServiceError) Error() string {
	if e.Index == "" {
		return fmt.Sprintf("%s: %s: %v", ErrService.Error(), e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", ErrService.Error(), e.Op, e.Index, e.Err)
}

func (e *ServiceError) Unwrap() []error { return []error{ErrService, e.Err} }

// NewServiceError wraps err as a ServiceError unless it already is one.
func NewServiceError(op, index string, err error) error {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &ServiceError{Op: op, Index: index, Err: err}
}

// Kind classifies an error into one of the top-level categories.
type Kind string

// Error kinds.
const (
	KindNone          Kind = ""
	KindConfiguration Kind = "configuration"
	KindSchema        Kind = "schema"
	KindValidation    Kind = "validation"
	KindUnauthorized  Kind = "unauthorized"
	KindService       Kind = "service"
	KindCanceled      Kind = "canceled"
	KindInternal      Kind = "internal"
)

// KindOf reports the category of err. Unauthorized takes precedence over the
// generic service kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrSchema):
		return KindSchema
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrService):
		return KindService
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindInternal
	}
}
