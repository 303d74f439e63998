package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchdemo/internal/db"
)

// CreateIndex creates an FT index over hashes prefixed with "<name>:".
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	args := buildCreateArgs(def)

	_, err := s.exec(ctx, db.OpCreateIndex, func() rueidis.Completed {
		return s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	})
	if err != nil {
		if isRedisErr(err, "index already exists") {
			return &db.Error{Op: db.OpCreateIndex, Err: fmt.Errorf("%w: %w", db.ErrIndexExists, err)}
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index and the documents it covers.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	_, err := s.exec(ctx, db.OpDropIndex, func() rueidis.Completed {
		return s.b().Arbitrary("FT.DROPINDEX").Args(name, "DD").Build()
	})
	if err != nil {
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists checks index existence via FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	_, err := s.exec(ctx, db.OpGetIndex, func() rueidis.Completed {
		return s.b().Arbitrary("FT.INFO").Args(name).Build()
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpGetIndex, Err: err}
	}
	return true, nil
}

func keyPrefix(index string) string {
	return index + ":"
}

func buildCreateArgs(idx *db.IndexDefinition) []string {
	args := []string{idx.Name, "ON", "HASH", "PREFIX", "1", keyPrefix(idx.Name), "SCHEMA"}
	for i := range idx.Fields {
		args = append(args, buildFieldArgs(&idx.Fields[i])...)
	}
	return args
}

// tagSeparator replaces the default "," so a whole value is one tag. Filter
// values cannot contain control characters, so no query can split on it.
const tagSeparator = "\x1f"

// buildFieldArgs maps field attributes onto Query Engine types: searchable
// strings become TEXT, keys and filterable strings exact-match TAGs. Fields
// that are only retrievable stay in the hash without an index entry.
func buildFieldArgs(f *db.IndexField) []string {
	var args []string
	switch {
	case f.Searchable:
		args = []string{f.Name, "TEXT"}
	case f.Type.IsNumeric() && (f.Filterable || f.Sortable):
		args = []string{f.Name, "NUMERIC"}
	case f.Key || f.Filterable || f.Facetable:
		args = []string{f.Name, "TAG", "SEPARATOR", tagSeparator, "CASESENSITIVE"}
	default:
		return nil
	}
	if f.Sortable {
		args = append(args, "SORTABLE")
	}
	return args
}
