package redis

import (
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchdemo/internal/db"
	"github.com/kailas-cloud/searchdemo/internal/resilience"
)

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
// It allows one retry with millisecond backoff.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{
		client: c,
		retry: resilience.RetryConfig{
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
			MaxDelay:     2 * time.Millisecond,
			Retryable:    db.IsTransient,
		},
	}
}
