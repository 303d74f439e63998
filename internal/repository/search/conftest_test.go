package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/searchdemo/internal/db"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/mode"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/request"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, q *db.Query) (*db.SearchResult, error)
}

func (m *mockStore) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func mustRequest(t *testing.T, m mode.Mode, term, category string, top int) request.Request {
	t.Helper()
	r, err := request.New(m, term, category, top, request.DefaultLimits())
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return r
}
