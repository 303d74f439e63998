package ingest

import (
	"context"

	"github.com/kailas-cloud/searchdemo/internal/domain/batch"
	domdoc "github.com/kailas-cloud/searchdemo/internal/domain/document"
)

// Repository defines the storage contract for document uploads.
type Repository interface {
	// Upload returns exactly one result per document, in input order.
	Upload(ctx context.Context, index string, docs []domdoc.Document) ([]batch.Result, error)
	Count(ctx context.Context, index string) (int, error)
}

// Guard keeps index recreation out while uploads run.
type Guard interface {
	Hold() (release func())
}
