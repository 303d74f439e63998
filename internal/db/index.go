package db

import (
	"errors"
	"strconv"
)

// IndexFieldType enumerates supported field data types.
type IndexFieldType int

const (
	// IndexFieldString is a text value.
	IndexFieldString IndexFieldType = iota
	// IndexFieldInt32 is a 32-bit integer.
	IndexFieldInt32
	// IndexFieldInt64 is a 64-bit integer.
	IndexFieldInt64
	// IndexFieldDouble is a floating point number.
	IndexFieldDouble
	// IndexFieldBoolean is true/false.
	IndexFieldBoolean
)

// IsNumeric reports whether the type holds numbers.
func (t IndexFieldType) IsNumeric() bool {
	return t == IndexFieldInt32 || t == IndexFieldInt64 || t == IndexFieldDouble
}

// IndexField describes a single field in an index schema.
type IndexField struct {
	Name string
	Type IndexFieldType

	Key         bool
	Retrievable bool
	Searchable  bool
	Filterable  bool
	Facetable   bool
	Sortable    bool
}

// IndexDefinition is a complete index definition used by CreateIndex.
type IndexDefinition struct {
	Name   string
	Fields []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool)
	keys := 0
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true

		if f.Key {
			keys++
			if f.Type != IndexFieldString {
				return errors.New("key field must be a string: " + f.Name)
			}
		}
		if f.Searchable && f.Type != IndexFieldString {
			return errors.New("searchable field must be a string: " + f.Name)
		}
	}
	if keys != 1 {
		return errors.New("exactly one key field is required")
	}

	return nil
}

// KeyField returns the name of the key field, or "" if none.
func (idx *IndexDefinition) KeyField() string {
	for i := range idx.Fields {
		if idx.Fields[i].Key {
			return idx.Fields[i].Name
		}
	}
	return ""
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
