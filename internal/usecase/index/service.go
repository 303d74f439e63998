package index

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	domindex "github.com/kailas-cloud/searchdemo/internal/domain/index"
	"github.com/kailas-cloud/searchdemo/internal/logger"
	"github.com/kailas-cloud/searchdemo/internal/metrics"
)

// Service manages the index lifecycle. Recreation holds a write lock; Hold
// hands out read locks so uploads never target an index mid-recreation.
type Service struct {
	repo Repository
	mu   sync.RWMutex
}

// New creates an index service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureIndex makes the index exist with exactly def's schema. An existing
// index is dropped and recreated, which deletes all of its documents.
func (s *Service) EnsureIndex(ctx context.Context, def domindex.Definition) error {
	// Definitions built with Reconstruct skip validation; re-check before any call.
	if _, err := domindex.New(def.Name(), def.Fields()); err != nil {
		return fmt.Errorf("validate index: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx).With(zap.String("index", def.Name()))

	exists, err := s.repo.Exists(ctx, def.Name())
	if err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	if exists {
		if err := s.recreate(ctx, log, def); err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
		return nil
	}

	err = s.repo.Create(ctx, def)
	if errors.Is(err, domain.ErrIndexExists) {
		// created concurrently between the existence check and the create
		err = s.recreate(ctx, log, def)
	}
	if err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	log.Info("index created", zap.Int("fields", len(def.Fields())))
	return nil
}

func (s *Service) recreate(ctx context.Context, log *zap.Logger, def domindex.Definition) error {
	log.Warn("recreating index: existing documents are deleted")
	if err := s.repo.Drop(ctx, def.Name()); err != nil && !errors.Is(err, domain.ErrIndexNotFound) {
		return err
	}
	if err := s.repo.Create(ctx, def); err != nil {
		return err
	}
	metrics.IndexRecreationsTotal.Inc()
	log.Info("index recreated", zap.Int("fields", len(def.Fields())))
	return nil
}

// DeleteIndex drops the named index and its documents.
func (s *Service) DeleteIndex(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Drop(ctx, name); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	logger.FromContext(ctx).Warn("index deleted", zap.String("index", name))
	return nil
}

// Hold blocks until no recreation is running and keeps recreation out until
// the returned release func is called.
func (s *Service) Hold() (release func()) {
	s.mu.RLock()
	return s.mu.RUnlock
}
