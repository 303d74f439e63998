package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/searchdemo/internal/db"
	"github.com/kailas-cloud/searchdemo/internal/domain/batch"
	domdoc "github.com/kailas-cloud/searchdemo/internal/domain/document"
)

var errNoStatus = errors.New("service returned no status for document")

// store is the consumer interface for documents (ISP).
type store interface {
	IndexDocuments(ctx context.Context, index string, items []db.Item) ([]db.ItemStatus, error)
	Count(ctx context.Context, index string) (int, error)
}

// Repo implements usecase/ingest.Repository.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upload sends docs to the index in a single call and returns one result per
// document in input order. Rejections by the service are per-item errors; a
// failure of the call itself is returned as a ServiceError.
func (r *Repo) Upload(ctx context.Context, index string, docs []domdoc.Document) ([]batch.Result, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	items := make([]db.Item, len(docs))
	for i := range docs {
		items[i] = toItem(&docs[i])
	}

	statuses, err := r.store.IndexDocuments(ctx, index, items)
	if err != nil {
		return nil, db.ServiceError(db.OpIndexDocuments, index, err)
	}

	byKey := make(map[string]db.ItemStatus, len(statuses))
	for _, st := range statuses {
		byKey[st.Key] = st
	}

	results := make([]batch.Result, len(docs))
	for i := range docs {
		id := docs[i].ID()
		st, ok := byKey[id]
		switch {
		case !ok:
			results[i] = batch.NewError(id, db.ServiceError(db.OpIndexDocuments, index, errNoStatus))
		case st.OK:
			results[i] = batch.NewOK(id)
		default:
			results[i] = batch.NewError(id, db.ServiceError(db.OpIndexDocuments, index,
				fmt.Errorf("status %d: %s", st.StatusCode, st.Message)))
		}
	}
	return results, nil
}

// Count returns the number of documents currently visible in the index.
func (r *Repo) Count(ctx context.Context, index string) (int, error) {
	n, err := r.store.Count(ctx, index)
	if err != nil {
		return 0, db.ServiceError(db.OpCount, index, err)
	}
	return n, nil
}
