package index

import (
	"context"

	"github.com/kailas-cloud/searchdemo/internal/db"
	domindex "github.com/kailas-cloud/searchdemo/internal/domain/index"
)

// store is the consumer interface for index lifecycle (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase/index.Repository.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Exists reports whether the named index is present on the service.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return false, db.ServiceError(db.OpGetIndex, name, err)
	}
	return ok, nil
}

// Create creates the index. A concurrent creation surfaces as domain.ErrIndexExists.
func (r *Repo) Create(ctx context.Context, def domindex.Definition) error {
	if err := r.store.CreateIndex(ctx, toDBIndex(def)); err != nil {
		return db.ServiceError(db.OpCreateIndex, def.Name(), err)
	}
	return nil
}

// Drop deletes the index together with all its documents.
func (r *Repo) Drop(ctx context.Context, name string) error {
	if err := r.store.DropIndex(ctx, name); err != nil {
		return db.ServiceError(db.OpDropIndex, name, err)
	}
	return nil
}
