package field

import (
	"fmt"
	"regexp"
)

// Type is the EDM data type of a field.
type Type string

// Supported data types.
const (
	String  Type = "Edm.String"
	Int32   Type = "Edm.Int32"
	Int64   Type = "Edm.Int64"
	Double  Type = "Edm.Double"
	Boolean Type = "Edm.Boolean"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{0,127}$`)

// Attrs groups the indexing attributes of a field.
type Attrs struct {
	Key         bool
	Retrievable bool
	Searchable  bool
	Filterable  bool
	Facetable   bool
	Sortable    bool
}

// Field is an immutable value object describing one index field.
type Field struct {
	name     string
	dataType Type
	attrs    Attrs
}

// New validates and creates a Field.
func New(name string, dt Type, attrs Attrs) (Field, error) {
	if !nameRegex.MatchString(name) {
		return Field{}, fmt.Errorf("invalid field name %q", name)
	}
	switch dt {
	case String, Int32, Int64, Double, Boolean:
	default:
		return Field{}, fmt.Errorf("invalid data type %q for %q", dt, name)
	}
	if attrs.Searchable && dt != String {
		return Field{}, fmt.Errorf("field %q: only %s fields can be searchable", name, String)
	}
	return Field{name: name, dataType: dt, attrs: attrs}, nil
}

// Reconstruct creates a Field without validation.
func Reconstruct(name string, dt Type, attrs Attrs) Field {
	return Field{name: name, dataType: dt, attrs: attrs}
}

// Key is a retrievable string key field.
func Key(name string) Field {
	return Field{name: name, dataType: String, attrs: Attrs{Key: true, Retrievable: true}}
}

// Searchable is a retrievable full-text string field.
func Searchable(name string) Field {
	return Field{name: name, dataType: String, attrs: Attrs{Retrievable: true, Searchable: true}}
}

// Facet is a retrievable string field used for exact filtering and facet counts.
func Facet(name string) Field {
	return Field{name: name, dataType: String, attrs: Attrs{Retrievable: true, Filterable: true, Facetable: true}}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// DataType returns the EDM data type.
func (f Field) DataType() Type { return f.dataType }

// Attrs returns the indexing attributes.
func (f Field) Attrs() Attrs { return f.attrs }

// IsKey reports whether the field is the document key.
func (f Field) IsKey() bool { return f.attrs.Key }

// IsSearchable reports whether the field takes part in full-text search.
func (f Field) IsSearchable() bool { return f.attrs.Searchable }

// IsFilterable reports whether the field accepts exact-match filters.
func (f Field) IsFilterable() bool { return f.attrs.Filterable }

// IsFacetable reports whether the field supports facet counts.
func (f Field) IsFacetable() bool { return f.attrs.Facetable }

// IsRetrievable reports whether the field is returned in results.
func (f Field) IsRetrievable() bool { return f.attrs.Retrievable }

// IsSortable reports whether results may be ordered by the field.
func (f Field) IsSortable() bool { return f.attrs.Sortable }
