package index

import (
	"context"

	domindex "github.com/kailas-cloud/searchdemo/internal/domain/index"
)

// Repository defines the storage contract for index lifecycle.
type Repository interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, def domindex.Definition) error
	Drop(ctx context.Context, name string) error
}
