package filter

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/searchdemo/internal/domain"
)

const (
	// MaxConditions is the maximum number of conditions per expression.
	MaxConditions = 8
	// MaxValueLength bounds a match value in bytes.
	MaxValueLength = 256
)

// Expression is a conjunction of exact-match conditions.
type Expression struct {
	must []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must ...Condition) (Expression, error) {
	if len(must) > MaxConditions {
		return Expression{}, fmt.Errorf("too many filter conditions (max %d): %w", MaxConditions, domain.ErrValidation)
	}
	return Expression{must: must}, nil
}

// Must returns the conditions that all have to hold.
func (e Expression) Must() []Condition { return e.must }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.must) == 0 }

// Condition is a single exact-match clause on a filterable field.
type Condition struct {
	key   string
	match string
}

// NewMatch creates an exact match condition. Values that cannot be sent safely
// (invalid UTF-8, control characters, oversized) are rejected. Quoting and
// escaping for the target query language happen in the storage backend.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required: %w", domain.ErrValidation)
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q: %w", key, domain.ErrValidation)
	}
	if len(match) > MaxValueLength {
		return Condition{}, fmt.Errorf(
			"match value for %q too long (max %d bytes): %w", key, MaxValueLength, domain.ErrValidation,
		)
	}
	if !utf8.ValidString(match) {
		return Condition{}, fmt.Errorf("match value for %q is not valid UTF-8: %w", key, domain.ErrValidation)
	}
	for _, r := range match {
		if unicode.IsControl(r) {
			return Condition{}, fmt.Errorf(
				"match value for %q contains control characters: %w", key, domain.ErrValidation,
			)
		}
	}
	return Condition{key: key, match: match}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value, unescaped.
func (c Condition) Match() string { return c.match }
