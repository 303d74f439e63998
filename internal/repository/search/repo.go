package search

import (
	"context"

	"github.com/kailas-cloud/searchdemo/internal/db"
	domdoc "github.com/kailas-cloud/searchdemo/internal/domain/document"
	domindex "github.com/kailas-cloud/searchdemo/internal/domain/index"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/request"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/result"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
}

var returnFields = []string{
	domindex.FieldID, domindex.FieldTitle, domindex.FieldContent, domindex.FieldCategory,
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store        store
	searchFields []string
}

// New creates a search repository. Full-text terms are matched against the
// searchable fields of the document schema.
func New(s store) *Repo {
	var fields []string
	for _, f := range domindex.DocumentFields() {
		if f.IsSearchable() {
			fields = append(fields, f.Name())
		}
	}
	return &Repo{store: s, searchFields: fields}
}

// Search runs req against index. An empty term matches every document; the
// category, when set, is applied as an exact filter.
func (r *Repo) Search(ctx context.Context, index string, req request.Request) ([]result.Result, error) {
	q := &db.Query{
		IndexName:    index,
		Text:         req.Term(),
		SearchFields: r.searchFields,
		Filters:      req.Filters(),
		Top:          req.Top(),
		ReturnFields: returnFields,
	}

	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, db.ServiceError(db.OpSearch, index, err)
	}
	return toResults(sr), nil
}

func toResults(sr *db.SearchResult) []result.Result {
	if sr == nil || len(sr.Entries) == 0 {
		return []result.Result{}
	}
	out := make([]result.Result, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		id := e.Fields[domindex.FieldID]
		if id == "" {
			id = e.Key
		}
		doc := domdoc.Reconstruct(id,
			e.Fields[domindex.FieldTitle],
			e.Fields[domindex.FieldContent],
			e.Fields[domindex.FieldCategory],
		)
		out = append(out, result.New(doc, e.Score))
	}
	return out
}
