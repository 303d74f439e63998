package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/kailas-cloud/searchdemo/internal/db"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/filter"
)

const matchAll = "*"

type searchBody struct {
	Search       string `json:"search"`
	Filter       string `json:"filter,omitempty"`
	Top          *int   `json:"top,omitempty"`
	Count        bool   `json:"count"`
	SearchFields string `json:"searchFields,omitempty"`
	Select       string `json:"select,omitempty"`
	SearchMode   string `json:"searchMode,omitempty"`
}

type searchResponse struct {
	Count *int                         `json:"@odata.count"`
	Value []map[string]json.RawMessage `json:"value"`
}

// Search runs a full-text query with optional OData filters.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	body := searchBody{
		Search:       q.Text,
		Filter:       buildFilter(q.Filters),
		Count:        true,
		SearchFields: strings.Join(q.SearchFields, ","),
		Select:       strings.Join(q.ReturnFields, ","),
		SearchMode:   "any",
	}
	if body.Search == "" {
		body.Search = matchAll
		body.SearchFields = ""
	}
	top := q.Top
	body.Top = &top

	out, err := s.postSearch(ctx, db.OpSearch, q.IndexName, body)
	if err != nil {
		return nil, err
	}

	result := &db.SearchResult{Entries: make([]db.SearchEntry, 0, len(out.Value))}
	for _, hit := range out.Value {
		result.Entries = append(result.Entries, toEntry(hit))
	}
	result.Total = len(result.Entries)
	if out.Count != nil {
		result.Total = *out.Count
	}
	return result, nil
}

// Count returns the number of documents visible to queries in index.
func (s *Store) Count(ctx context.Context, index string) (int, error) {
	zero := 0
	out, err := s.postSearch(ctx, db.OpCount, index, searchBody{Search: matchAll, Count: true, Top: &zero})
	if err != nil {
		return 0, err
	}
	if out.Count == nil {
		return 0, nil
	}
	return *out.Count, nil
}

// postSearch runs one docs/search call; failures carry op.
func (s *Store) postSearch(ctx context.Context, op, index string, body searchBody) (*searchResponse, error) {
	req, err := s.newRequest(ctx, http.MethodPost, body, "indexes", index, "docs", "search")
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	resp, err := s.pl.Do(req)
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return nil, responseError(op, resp)
	}

	var out searchResponse
	if err := runtime.UnmarshalAsJSON(resp, &out); err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	return &out, nil
}

// toEntry splits a raw hit into score and string fields. Annotations other
// than the score are dropped; non-string values keep their JSON text.
func toEntry(hit map[string]json.RawMessage) db.SearchEntry {
	e := db.SearchEntry{Fields: make(map[string]string, len(hit))}
	for k, raw := range hit {
		if k == "@search.score" {
			e.Score, _ = strconv.ParseFloat(string(raw), 64)
			continue
		}
		if strings.HasPrefix(k, "@") {
			continue
		}
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			e.Fields[k] = str
		} else if string(raw) != "null" {
			e.Fields[k] = string(raw)
		}
	}
	return e
}

// buildFilter renders exact-match conditions as an OData expression.
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(expr.Must()))
	for _, c := range expr.Must() {
		parts = append(parts, fmt.Sprintf("%s eq '%s'", c.Key(), escapeOData(c.Match())))
	}
	return strings.Join(parts, " and ")
}

// escapeOData doubles single quotes inside an OData string literal.
func escapeOData(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
