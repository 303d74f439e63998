package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdemo/internal/config"
	"github.com/kailas-cloud/searchdemo/internal/db"
	"github.com/kailas-cloud/searchdemo/internal/db/azure"
	dbRedis "github.com/kailas-cloud/searchdemo/internal/db/redis"
	"github.com/kailas-cloud/searchdemo/internal/domain"
	domindex "github.com/kailas-cloud/searchdemo/internal/domain/index"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/mode"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/request"
	"github.com/kailas-cloud/searchdemo/internal/metrics"
	documentrepo "github.com/kailas-cloud/searchdemo/internal/repository/document"
	indexrepo "github.com/kailas-cloud/searchdemo/internal/repository/index"
	searchrepo "github.com/kailas-cloud/searchdemo/internal/repository/search"
	openaiChat "github.com/kailas-cloud/searchdemo/internal/transport/openai"
	answeruc "github.com/kailas-cloud/searchdemo/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/searchdemo/internal/usecase/health"
	indexuc "github.com/kailas-cloud/searchdemo/internal/usecase/index"
	ingestuc "github.com/kailas-cloud/searchdemo/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/searchdemo/internal/usecase/search"
)

// StoreFactory opens the search service store for a configuration.
type StoreFactory func(cfg config.SearchConfig) (db.Store, error)

// App is the assembled object graph shared by all commands.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Store  db.Store

	Index  *indexuc.Service
	Ingest *ingestuc.Service
	Search *searchuc.Service
	Answer *answeruc.Service
	Health *healthuc.Service
}

// NewStore opens the store selected by cfg.Driver.
func NewStore(cfg config.SearchConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:         cfg.Redis.Addrs,
			Username:      cfg.Redis.Username,
			Password:      cfg.Redis.Password,
			Timeout:       cfg.Timeout(),
			MaxAttempts:   cfg.MaxAttempts,
			RetryDelay:    cfg.RetryDelay(),
			MaxRetryDelay: cfg.MaxRetryDelay(),
		})
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", db.ServiceError(db.OpPing, "", err))
		}
		return s, nil
	case config.DriverAzure:
		s, err := azure.NewStore(azure.Config{
			Endpoint:      cfg.Endpoint,
			APIKey:        cfg.APIKey,
			APIVersion:    cfg.APIVersion,
			Timeout:       cfg.Timeout(),
			MaxAttempts:   cfg.MaxAttempts,
			RetryDelay:    cfg.RetryDelay(),
			MaxRetryDelay: cfg.MaxRetryDelay(),
		})
		if err != nil {
			return nil, fmt.Errorf("azure store: %w: %w", domain.ErrConfiguration, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown search driver %q: %w", cfg.Driver, domain.ErrConfiguration)
	}
}

// NewApp wires repositories, use cases and the optional answer provider
// around one store.
func NewApp(cfg config.Config, logger *zap.Logger, newStore StoreFactory) (*App, error) {
	metrics.Register()

	raw, err := newStore(cfg.Search)
	if err != nil {
		return nil, err
	}
	store := db.NewInstrumented(raw, cfg.Search.Driver, logger)

	indexSvc := indexuc.New(indexrepo.New(store))
	ingestSvc := ingestuc.New(documentrepo.New(store), indexSvc, cfg.Search.IndexName, ingestuc.Options{
		BatchSize:     cfg.Ingest.BatchSize,
		Concurrency:   cfg.Ingest.Concurrency,
		BatchesPerSec: cfg.Ingest.BatchesPerSec,
	})
	searchSvc := searchuc.New(searchrepo.New(store), cfg.Search.IndexName, searchuc.Options{
		Limits:    request.Limits{DefaultTop: cfg.Query.DefaultTop, MaxTop: cfg.Query.MaxTop},
		EmptyTerm: mode.EmptyTermPolicy(cfg.Query.EmptyTerm),
	})

	var (
		completer answeruc.Completer
		checker   healthuc.AnswerChecker
	)
	if cfg.Answer.Enabled() {
		c := openaiChat.NewCompleter(&openaiChat.Config{
			Provider:   cfg.Answer.Provider,
			APIKey:     cfg.Answer.APIKey,
			Endpoint:   cfg.Answer.Endpoint,
			Deployment: cfg.Answer.Deployment,
			APIVersion: cfg.Answer.APIVersion,
			MaxTokens:  cfg.Answer.MaxTokens,
			Timeout:    time.Duration(cfg.Answer.TimeoutSec) * time.Second,
			Logger:     logger,
		})
		completer, checker = c, c
	}

	return &App{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Index:  indexSvc,
		Ingest: ingestSvc,
		Search: searchSvc,
		Answer: answeruc.New(searchSvc, completer, cfg.Answer.ContextDocuments),
		Health: healthuc.New(store, checker),
	}, nil
}

// IndexDefinition returns the document schema for the configured index.
func (a *App) IndexDefinition() (domindex.Definition, error) {
	return domindex.DocumentIndex(a.Config.Search.IndexName)
}

// WaitForReady blocks until the service answers or the readiness timeout expires.
func (a *App) WaitForReady(ctx context.Context) error {
	timeout := time.Duration(a.Config.Search.ReadinessTimeout) * time.Second
	if err := a.Store.WaitForReady(ctx, timeout); err != nil {
		return db.ServiceError(db.OpPing, "", err)
	}
	return nil
}

// Close releases the store.
func (a *App) Close() {
	a.Store.Close()
}
