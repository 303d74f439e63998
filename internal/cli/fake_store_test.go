package cli

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/searchdemo/internal/config"
	"github.com/kailas-cloud/searchdemo/internal/db"
)

// fakeStore is an in-memory db.Store. Text matches are case-insensitive
// substring matches over the search fields; filters are exact matches.
type fakeStore struct {
	mu      sync.Mutex
	indexes map[string]map[string]map[string]string
	creates int
	drops   int
	pingErr error
	queries []db.Query
	closed  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{indexes: map[string]map[string]map[string]string{}}
}

func (f *fakeStore) factory() StoreFactory {
	return func(config.SearchConfig) (db.Store, error) { return f, nil }
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) WaitForReady(ctx context.Context, _ time.Duration) error { return f.Ping(ctx) }

func (f *fakeStore) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.indexes[def.Name]; ok {
		return db.ErrIndexExists
	}
	f.indexes[def.Name] = map[string]map[string]string{}
	f.creates++
	return nil
}

func (f *fakeStore) DropIndex(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.indexes[name]; !ok {
		return db.ErrIndexNotFound
	}
	delete(f.indexes, name)
	f.drops++
	return nil
}

func (f *fakeStore) IndexExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.indexes[name]
	return ok, nil
}

func (f *fakeStore) IndexDocuments(_ context.Context, index string, items []db.Item) ([]db.ItemStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	docs, ok := f.indexes[index]
	if !ok {
		return nil, db.ErrIndexNotFound
	}
	out := make([]db.ItemStatus, len(items))
	for i, it := range items {
		docs[it.Key] = it.Fields
		out[i] = db.ItemStatus{Key: it.Key, OK: true, StatusCode: 201}
	}
	return out, nil
}

func (f *fakeStore) Search(_ context.Context, q *db.Query) (*db.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, *q)
	docs, ok := f.indexes[q.IndexName]
	if !ok {
		return nil, db.ErrIndexNotFound
	}

	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	term := strings.ToLower(q.Text)
	res := &db.SearchResult{}
	for _, k := range keys {
		fields := docs[k]
		if !matchesFilters(fields, q) || !matchesText(fields, q.SearchFields, term) {
			continue
		}
		res.Total++
		if len(res.Entries) < q.Top {
			res.Entries = append(res.Entries, db.SearchEntry{Key: k, Score: 1, Fields: fields})
		}
	}
	return res, nil
}

func (f *fakeStore) Count(_ context.Context, index string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	docs, ok := f.indexes[index]
	if !ok {
		return 0, db.ErrIndexNotFound
	}
	return len(docs), nil
}

func matchesFilters(fields map[string]string, q *db.Query) bool {
	for _, c := range q.Filters.Must() {
		if fields[c.Key()] != c.Match() {
			return false
		}
	}
	return true
}

func matchesText(fields map[string]string, searchFields []string, term string) bool {
	if term == "" {
		return true
	}
	for _, name := range searchFields {
		if strings.Contains(strings.ToLower(fields[name]), term) {
			return true
		}
	}
	return false
}
