package index

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	"github.com/kailas-cloud/searchdemo/internal/domain/index/field"
)

// Field names of the document schema.
const (
	FieldID       = "id"
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldCategory = "category"
)

// Lower-case letters, digits and dashes, starting with a letter or digit.
var nameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,127}$`)

// Definition is the immutable schema of a search index.
type Definition struct {
	name   string
	fields []field.Field
}

// New validates and creates an index Definition. Violations wrap domain.ErrSchema.
func New(name string, fields []field.Field) (Definition, error) {
	if !nameRegex.MatchString(name) {
		return Definition{}, fmt.Errorf(
			"index name %q must be 2-128 lower-case letters, digits or dashes: %w", name, domain.ErrSchema,
		)
	}
	if len(fields) == 0 {
		return Definition{}, fmt.Errorf("at least one field is required: %w", domain.ErrSchema)
	}

	seen := make(map[string]bool, len(fields))
	keys := 0
	for _, f := range fields {
		if _, err := field.New(f.Name(), f.DataType(), f.Attrs()); err != nil {
			return Definition{}, fmt.Errorf("%w: %w", err, domain.ErrSchema)
		}
		if seen[f.Name()] {
			return Definition{}, fmt.Errorf("duplicate field %q: %w", f.Name(), domain.ErrSchema)
		}
		seen[f.Name()] = true
		if f.IsKey() {
			keys++
			if f.DataType() != field.String {
				return Definition{}, fmt.Errorf("key field %q must be %s: %w", f.Name(), field.String, domain.ErrSchema)
			}
		}
	}
	if keys != 1 {
		return Definition{}, fmt.Errorf("exactly one key field is required, got %d: %w", keys, domain.ErrSchema)
	}

	return Definition{name: name, fields: append([]field.Field(nil), fields...)}, nil
}

// Reconstruct creates a Definition without validation.
func Reconstruct(name string, fields []field.Field) Definition {
	return Definition{name: name, fields: fields}
}

// DocumentFields returns the fixed document schema: key id, searchable title and
// content, filterable and facetable category.
func DocumentFields() []field.Field {
	return []field.Field{
		field.Key(FieldID),
		field.Searchable(FieldTitle),
		field.Searchable(FieldContent),
		field.Facet(FieldCategory),
	}
}

// DocumentIndex binds the document schema to an index name.
func DocumentIndex(name string) (Definition, error) {
	return New(name, DocumentFields())
}

// Name returns the index name.
func (d Definition) Name() string { return d.name }

// Fields returns the ordered field list.
func (d Definition) Fields() []field.Field { return d.fields }

// KeyField returns the key field name.
func (d Definition) KeyField() string {
	for _, f := range d.fields {
		if f.IsKey() {
			return f.Name()
		}
	}
	return ""
}

// SearchableFields returns the names of full-text fields in schema order.
func (d Definition) SearchableFields() []string {
	var out []string
	for _, f := range d.fields {
		if f.IsSearchable() {
			out = append(out, f.Name())
		}
	}
	return out
}

// IsFilterable reports whether name is a filterable field of the index.
func (d Definition) IsFilterable(name string) bool {
	for _, f := range d.fields {
		if f.Name() == name {
			return f.IsFilterable()
		}
	}
	return false
}
