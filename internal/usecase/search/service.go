package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/mode"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/request"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/result"
	"github.com/kailas-cloud/searchdemo/internal/logger"
)

// Options configures query defaults.
type Options struct {
	Limits    request.Limits
	EmptyTerm mode.EmptyTermPolicy
}

// Service answers keyword, category and combined queries against one index.
type Service struct {
	repo  Repository
	index string
	opts  Options
}

// New creates a search service. Zero options fall back to request.DefaultLimits
// and mode.MatchAll.
func New(repo Repository, index string, opts Options) *Service {
	if !opts.EmptyTerm.IsValid() {
		opts.EmptyTerm = mode.MatchAll
	}
	return &Service{repo: repo, index: index, opts: opts}
}

// Index returns the queried index name.
func (s *Service) Index() string { return s.index }

// Keyword runs a full-text search ranked by relevance. A blank term follows
// the configured empty-term policy.
func (s *Service) Keyword(ctx context.Context, term string, top int) ([]result.Result, error) {
	req, err := request.New(mode.Keyword, term, "", top, s.opts.Limits)
	if err != nil {
		return nil, err
	}
	if !req.HasTerm() && s.opts.EmptyTerm == mode.NoResults {
		return []result.Result{}, nil
	}
	return s.run(ctx, req)
}

// ByCategory returns documents whose category equals category exactly. An
// unknown category yields an empty slice.
func (s *Service) ByCategory(ctx context.Context, category string, top int) ([]result.Result, error) {
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("category is required: %w", domain.ErrValidation)
	}
	req, err := request.New(mode.Category, "", category, top, s.opts.Limits)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, req)
}

// Advanced combines a full-text term with a category filter. A missing input
// drops that criterion; with neither, every document matches. The empty-term
// policy applies to Keyword only, so Advanced with both inputs blank matches
// everything even under mode.NoResults.
func (s *Service) Advanced(ctx context.Context, term, category string, top int) ([]result.Result, error) {
	req, err := request.New(mode.Advanced, term, category, top, s.opts.Limits)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, req)
}

func (s *Service) run(ctx context.Context, req request.Request) ([]result.Result, error) {
	results, err := s.repo.Search(ctx, s.index, req)
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", req.Mode(), err)
	}
	logger.FromContext(ctx).Debug("search done",
		zap.String("mode", string(req.Mode())),
		zap.Bool("term", req.HasTerm()),
		zap.Bool("category", req.HasCategory()),
		zap.Int("top", req.Top()),
		zap.Int("hits", len(results)),
	)
	return results, nil
}
