package db

import "strings"

// IndexBuilder is a fluent builder for index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Key adds the string key field.
func (b *IndexBuilder) Key(name string) *IndexBuilder {
	return b.Field(IndexField{Name: name, Type: IndexFieldString, Key: true, Retrievable: true})
}

// Searchable adds a retrievable full-text string field.
func (b *IndexBuilder) Searchable(name string) *IndexBuilder {
	return b.Field(IndexField{Name: name, Type: IndexFieldString, Retrievable: true, Searchable: true})
}

// Facet adds a retrievable string field for exact filters and facets.
func (b *IndexBuilder) Facet(name string) *IndexBuilder {
	return b.Field(IndexField{
		Name: name, Type: IndexFieldString,
		Retrievable: true, Filterable: true, Facetable: true,
	})
}

// Field adds a field with explicit attributes.
func (b *IndexBuilder) Field(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// String returns a compact debug representation, e.g. "docs(id KEY, title SEARCHABLE)".
func (idx *IndexDefinition) String() string {
	parts := make([]string, 0, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		attrs := []string{f.Name}
		if f.Key {
			attrs = append(attrs, "KEY")
		}
		if f.Searchable {
			attrs = append(attrs, "SEARCHABLE")
		}
		if f.Filterable {
			attrs = append(attrs, "FILTERABLE")
		}
		if f.Facetable {
			attrs = append(attrs, "FACETABLE")
		}
		if f.Sortable {
			attrs = append(attrs, "SORTABLE")
		}
		parts = append(parts, strings.Join(attrs, " "))
	}
	return idx.Name + "(" + strings.Join(parts, ", ") + ")"
}
