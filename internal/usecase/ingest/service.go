package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	"github.com/kailas-cloud/searchdemo/internal/domain/batch"
	domdoc "github.com/kailas-cloud/searchdemo/internal/domain/document"
	"github.com/kailas-cloud/searchdemo/internal/logger"
	"github.com/kailas-cloud/searchdemo/internal/metrics"
)

// Options tunes chunked uploads.
type Options struct {
	BatchSize     int     // documents per chunk, capped at batch.MaxSize
	Concurrency   int     // chunks in flight
	BatchesPerSec float64 // 0 = unlimited
	PollInterval  time.Duration
}

// Service uploads documents into one index.
type Service struct {
	repo  Repository
	guard Guard
	index string
	opts  Options
}

// New creates an ingest service. guard may be nil.
func New(repo Repository, guard Guard, index string, opts Options) *Service {
	if opts.BatchSize <= 0 || opts.BatchSize > batch.MaxSize {
		opts.BatchSize = batch.MaxSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	return &Service{repo: repo, guard: guard, index: index, opts: opts}
}

// Upload sends at most batch.MaxSize documents in one service call. Larger
// batches fail with domain.ErrValidation before anything is sent. Documents
// that fail local checks are rejected per item without a service call.
func (s *Service) Upload(ctx context.Context, docs []domdoc.Document) (batch.Outcome, error) {
	if len(docs) > batch.MaxSize {
		return batch.Outcome{}, fmt.Errorf(
			"batch of %d documents exceeds the limit of %d: %w", len(docs), batch.MaxSize, domain.ErrValidation,
		)
	}
	defer s.hold()()
	return s.upload(ctx, docs)
}

// UploadAll splits docs into chunks and uploads them, in parallel when
// configured. On error the outcome covers the chunks that completed.
func (s *Service) UploadAll(ctx context.Context, docs []domdoc.Document) (batch.Outcome, error) {
	if len(docs) == 0 {
		return batch.NewOutcome(nil), nil
	}
	defer s.hold()()

	var limiter *rate.Limiter
	if s.opts.BatchesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.opts.BatchesPerSec), 1)
	}

	var (
		mu      sync.Mutex
		results = make([]batch.Result, len(docs))
		done    = make([]bool, len(docs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	var issueErr error
	for start := 0; start < len(docs); start += s.opts.BatchSize {
		end := min(start+s.opts.BatchSize, len(docs))
		if limiter != nil {
			if err := limiter.Wait(gctx); err != nil {
				issueErr = err
				break
			}
		}
		if err := gctx.Err(); err != nil {
			issueErr = err
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := s.upload(gctx, docs[start:end])
			if err != nil {
				return fmt.Errorf("chunk %d-%d: %w", start, end, err)
			}
			mu.Lock()
			defer mu.Unlock()
			copy(results[start:end], out.Results())
			for i := start; i < end; i++ {
				done[i] = true
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil && issueErr != nil {
		err = fmt.Errorf("upload stopped: %w", issueErr)
	}

	completed := make([]batch.Result, 0, len(docs))
	for i, ok := range done {
		if ok {
			completed = append(completed, results[i])
		}
	}
	return batch.NewOutcome(completed), err
}

// WaitVisible polls the document count until it reaches want or timeout
// expires. Uploaded documents become searchable after the service's
// indexing latency.
func (s *Service) WaitVisible(ctx context.Context, want int, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		n, err := s.repo.Count(ctx, s.index)
		if err == nil && n >= want {
			return n, nil
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return n, fmt.Errorf("wait visible: %w", err)
			}
			return n, fmt.Errorf("%d of %d documents visible: %w", n, want, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (s *Service) hold() (release func()) {
	if s.guard == nil {
		return func() {}
	}
	return s.guard.Hold()
}

func (s *Service) upload(ctx context.Context, docs []domdoc.Document) (batch.Outcome, error) {
	results := make([]batch.Result, len(docs))
	valid := make([]domdoc.Document, 0, len(docs))
	pos := make([]int, 0, len(docs))
	seen := make(map[string]bool, len(docs))

	for i := range docs {
		d := &docs[i]
		if err := d.Validate(); err != nil {
			results[i] = batch.NewError(d.ID(), err)
			continue
		}
		if seen[d.ID()] {
			results[i] = batch.NewError(d.ID(),
				fmt.Errorf("duplicate document id %q in batch: %w", d.ID(), domain.ErrValidation))
			continue
		}
		seen[d.ID()] = true
		valid = append(valid, *d)
		pos = append(pos, i)
	}

	if len(valid) > 0 {
		res, err := s.repo.Upload(ctx, s.index, valid)
		if err != nil {
			return batch.Outcome{}, fmt.Errorf("upload documents: %w", err)
		}
		if len(res) != len(valid) {
			return batch.Outcome{}, domain.NewServiceError("index_documents", s.index,
				fmt.Errorf("got %d results for %d documents", len(res), len(valid)))
		}
		for j, r := range res {
			results[pos[j]] = r
		}
	}

	out := batch.NewOutcome(results)
	metrics.IngestDocumentsTotal.WithLabelValues("accepted").Add(float64(out.Accepted()))
	metrics.IngestDocumentsTotal.WithLabelValues("rejected").Add(float64(out.Rejected()))

	log := logger.FromContext(ctx).With(zap.String("index", s.index))
	if out.Rejected() > 0 {
		log.Warn("documents rejected", zap.Int("accepted", out.Accepted()), zap.Int("rejected", out.Rejected()))
	} else {
		log.Debug("documents uploaded", zap.Int("accepted", out.Accepted()))
	}
	return out, nil
}
