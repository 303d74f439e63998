package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/searchdemo/internal/db"
	domdoc "github.com/kailas-cloud/searchdemo/internal/domain/document"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	indexDocumentsFn func(ctx context.Context, index string, items []db.Item) ([]db.ItemStatus, error)
	countFn          func(ctx context.Context, index string) (int, error)
}

func (m *mockStore) IndexDocuments(ctx context.Context, index string, items []db.Item) ([]db.ItemStatus, error) {
	if m.indexDocumentsFn != nil {
		return m.indexDocumentsFn(ctx, index, items)
	}
	out := make([]db.ItemStatus, len(items))
	for i, it := range items {
		out[i] = db.ItemStatus{Key: it.Key, OK: true, StatusCode: 200}
	}
	return out, nil
}

func (m *mockStore) Count(ctx context.Context, index string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, index)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func mustDoc(t *testing.T, id, title, content, category string) domdoc.Document {
	t.Helper()
	d, err := domdoc.New(id, title, content, category)
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return d
}
