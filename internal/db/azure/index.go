package azure

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/kailas-cloud/searchdemo/internal/db"
)

type indexBody struct {
	Name   string      `json:"name"`
	Fields []fieldBody `json:"fields"`
}

type fieldBody struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Key         bool   `json:"key"`
	Retrievable bool   `json:"retrievable"`
	Searchable  bool   `json:"searchable"`
	Filterable  bool   `json:"filterable"`
	Facetable   bool   `json:"facetable"`
	Sortable    bool   `json:"sortable"`
}

func edmType(t db.IndexFieldType) string {
	switch t {
	case db.IndexFieldInt32:
		return "Edm.Int32"
	case db.IndexFieldInt64:
		return "Edm.Int64"
	case db.IndexFieldDouble:
		return "Edm.Double"
	case db.IndexFieldBoolean:
		return "Edm.Boolean"
	default:
		return "Edm.String"
	}
}

func toIndexBody(def *db.IndexDefinition) indexBody {
	body := indexBody{Name: def.Name, Fields: make([]fieldBody, 0, len(def.Fields))}
	for i := range def.Fields {
		f := &def.Fields[i]
		body.Fields = append(body.Fields, fieldBody{
			Name:        f.Name,
			Type:        edmType(f.Type),
			Key:         f.Key,
			Retrievable: f.Retrievable,
			Searchable:  f.Searchable,
			Filterable:  f.Filterable,
			Facetable:   f.Facetable,
			Sortable:    f.Sortable,
		})
	}
	return body
}

// CreateIndex creates a new index. An existing index yields ErrIndexExists.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}

	req, err := s.newRequest(ctx, http.MethodPost, toIndexBody(def), "indexes")
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	resp, err := s.pl.Do(req)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	defer resp.Body.Close()

	if !runtime.HasStatusCode(resp, http.StatusCreated, http.StatusOK) {
		return responseError(db.OpCreateIndex, resp)
	}
	return nil
}

// DropIndex deletes an index with all its documents.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	req, err := s.newRequest(ctx, http.MethodDelete, nil, "indexes", name)
	if err != nil {
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	resp, err := s.pl.Do(req)
	if err != nil {
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	defer resp.Body.Close()

	if !runtime.HasStatusCode(resp, http.StatusNoContent, http.StatusOK) {
		return responseError(db.OpDropIndex, resp)
	}
	return nil
}

// IndexExists checks whether an index exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	req, err := s.newRequest(ctx, http.MethodGet, nil, "indexes", name)
	if err != nil {
		return false, &db.Error{Op: db.OpGetIndex, Err: err}
	}
	resp, err := s.pl.Do(req)
	if err != nil {
		return false, &db.Error{Op: db.OpGetIndex, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("index %s: %w", name, responseError(db.OpGetIndex, resp))
	}
}
