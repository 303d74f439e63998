package db

import "github.com/kailas-cloud/searchdemo/internal/domain/search/filter"

// Query is the input for a search call. An empty Text matches every document.
type Query struct {
	IndexName    string
	Text         string
	SearchFields []string
	Filters      filter.Expression
	Top          int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
