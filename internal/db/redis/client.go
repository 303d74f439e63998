package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchdemo/internal/db"
	"github.com/kailas-cloud/searchdemo/internal/metrics"
	"github.com/kailas-cloud/searchdemo/internal/resilience"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int

	// Timeout bounds every single try; MaxAttempts counts the first try.
	Timeout       time.Duration
	MaxAttempts   int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// Store implements db.Store via rueidis on Redis 8+ (Query Engine).
type Store struct {
	client  rueidis.Client
	timeout time.Duration
	retry   resilience.RetryConfig
}

// NewStore creates a Redis store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", classify(err))
	}

	return &Store{
		client:  client,
		timeout: cfg.Timeout,
		retry: resilience.RetryConfig{
			MaxAttempts:  cfg.MaxAttempts,
			InitialDelay: cfg.RetryDelay,
			MaxDelay:     cfg.MaxRetryDelay,
			Retryable:    db.IsTransient,
		},
	}, nil
}

// Ping checks connectivity and credentials.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.exec(ctx, db.OpPing, func() rueidis.Completed {
		return s.b().Ping().Build()
	}); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		err := s.Ping(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, db.ErrUnauthorized) {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// exec runs a single command with a per-try timeout and retries transient
// failures. Commands are rebuilt per try since rueidis recycles them after Do.
func (s *Store) exec(ctx context.Context, op string, build func() rueidis.Completed) (rueidis.RedisResult, error) {
	var res rueidis.RedisResult
	err := resilience.Retry(ctx, op, s.retryFor(op), func() error {
		return resilience.WithTimeout(ctx, s.timeout, op, func(tctx context.Context) error {
			res = s.client.Do(tctx, build())
			return classify(res.Error())
		})
	})
	return res, err
}

func (s *Store) retryFor(op string) resilience.RetryConfig {
	rc := s.retry
	rc.OnRetry = func(int, error) {
		metrics.ServiceRetriesTotal.WithLabelValues(op).Inc()
	}
	return rc
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// classify maps server replies onto the db sentinel taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isRedisErr(err, "WRONGPASS"), isRedisErr(err, "NOAUTH"), isRedisErr(err, "NOPERM"):
		return fmt.Errorf("%w: %w", db.ErrUnauthorized, err)
	case isRedisErr(err, "unknown index name"), isRedisErr(err, "no such index"):
		return fmt.Errorf("%w: %w", db.ErrIndexNotFound, err)
	case isRedisErr(err, "LOADING"), isRedisErr(err, "BUSY"), isRedisErr(err, "TRYAGAIN"),
		isRedisErr(err, "CLUSTERDOWN"):
		return fmt.Errorf("%w: %w", db.ErrUnavailable, err)
	case errors.Is(err, rueidis.ErrClosing):
		return fmt.Errorf("%w: %w", db.ErrUnavailable, err)
	}
	return err
}

// isRedisErr checks if err is a Redis server error containing substr (case-insensitive).
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
