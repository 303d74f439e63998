package db

import (
	"context"
	"time"
)

// Store is the search service facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade; consumers use narrow sub-interfaces
type Store interface {
	Pinger
	IndexManager
	DocumentWriter
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks service connectivity and credentials.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Item is a single document to index: its key and all field values.
type Item struct {
	Key    string
	Fields map[string]string
}

// ItemStatus is the service verdict for one indexed item.
type ItemStatus struct {
	Key        string
	OK         bool
	StatusCode int
	Message    string
}

// DocumentWriter uploads documents in a single service call (merge-or-upload).
// The returned statuses follow the order of items.
type DocumentWriter interface {
	IndexDocuments(ctx context.Context, index string, items []Item) ([]ItemStatus, error)
}

// Searcher provides query operations over an index.
type Searcher interface {
	Search(ctx context.Context, q *Query) (*SearchResult, error)
	Count(ctx context.Context, index string) (int, error)
}
