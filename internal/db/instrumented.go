package db

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdemo/internal/metrics"
)

// Compile-time check: Instrumented implements Store.
var _ Store = (*Instrumented)(nil)

// Instrumented wraps a Store with per-operation metrics and debug logging.
type Instrumented struct {
	inner  Store
	driver string
	logger *zap.Logger
}

// NewInstrumented decorates store. driver labels the metrics (azure, redis).
func NewInstrumented(store Store, driver string, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: store, driver: driver, logger: logger}
}

func (s *Instrumented) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	elapsed := time.Since(start)
	metrics.ServiceRequestsTotal.WithLabelValues(s.driver, op, status).Inc()
	metrics.ServiceRequestDuration.WithLabelValues(s.driver, op).Observe(elapsed.Seconds())
	if err != nil {
		s.logger.Debug("search service call failed",
			zap.String("driver", s.driver),
			zap.String("op", op),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
	}
}

// Ping implements Pinger.
func (s *Instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.inner.Ping(ctx)
	s.observe(OpPing, start, err)
	return err //nolint:wrapcheck // transparent decorator
}

// CreateIndex implements IndexManager.
func (s *Instrumented) CreateIndex(ctx context.Context, def *IndexDefinition) error {
	start := time.Now()
	err := s.inner.CreateIndex(ctx, def)
	s.observe(OpCreateIndex, start, err)
	return err //nolint:wrapcheck // transparent decorator
}

// DropIndex implements IndexManager.
func (s *Instrumented) DropIndex(ctx context.Context, name string) error {
	start := time.Now()
	err := s.inner.DropIndex(ctx, name)
	s.observe(OpDropIndex, start, err)
	return err //nolint:wrapcheck // transparent decorator
}

// IndexExists implements IndexManager.
func (s *Instrumented) IndexExists(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	ok, err := s.inner.IndexExists(ctx, name)
	s.observe(OpGetIndex, start, err)
	return ok, err //nolint:wrapcheck // transparent decorator
}

// IndexDocuments implements DocumentWriter.
func (s *Instrumented) IndexDocuments(ctx context.Context, index string, items []Item) ([]ItemStatus, error) {
	start := time.Now()
	st, err := s.inner.IndexDocuments(ctx, index, items)
	s.observe(OpIndexDocuments, start, err)
	return st, err //nolint:wrapcheck // transparent decorator
}

// Search implements Searcher.
func (s *Instrumented) Search(ctx context.Context, q *Query) (*SearchResult, error) {
	start := time.Now()
	res, err := s.inner.Search(ctx, q)
	s.observe(OpSearch, start, err)
	return res, err //nolint:wrapcheck // transparent decorator
}

// Count implements Searcher.
func (s *Instrumented) Count(ctx context.Context, index string) (int, error) {
	start := time.Now()
	n, err := s.inner.Count(ctx, index)
	s.observe(OpCount, start, err)
	return n, err //nolint:wrapcheck // transparent decorator
}

// Close releases the inner store.
func (s *Instrumented) Close() { s.inner.Close() }

// WaitForReady delegates to the inner store.
func (s *Instrumented) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return s.inner.WaitForReady(ctx, timeout) //nolint:wrapcheck // transparent decorator
}
