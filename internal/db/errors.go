package db

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/kailas-cloud/searchdemo/internal/domain"
)

// Sentinel errors for search service operations.
var (
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrUnauthorized  = errors.New("db: unauthorized")
	ErrThrottled     = errors.New("db: throttled")
	ErrUnavailable   = errors.New("db: service unavailable")
)

// Op names used for error context and metrics labels.
const (
	OpPing           = "ping"
	OpCreateIndex    = "create_index"
	OpDropIndex      = "drop_index"
	OpGetIndex       = "get_index"
	OpIndexDocuments = "index_documents"
	OpSearch         = "search"
	OpCount          = "count"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth retrying: throttling, server-side
// unavailability, timeouts and network errors. Caller cancellation is not.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrThrottled) || errors.Is(err, ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// ServiceError converts a store failure into a *domain.ServiceError. Auth,
// index presence and transient causes are tagged with the matching domain
// sentinels so callers can branch without importing this package.
func ServiceError(op, index string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		err = fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	case errors.Is(err, ErrIndexNotFound):
		err = fmt.Errorf("%w: %w", domain.ErrIndexNotFound, err)
	case errors.Is(err, ErrIndexExists):
		err = fmt.Errorf("%w: %w", domain.ErrIndexExists, err)
	case IsTransient(err):
		err = fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	return domain.NewServiceError(op, index, err)
}
