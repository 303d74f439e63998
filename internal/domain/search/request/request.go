package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	"github.com/kailas-cloud/searchdemo/internal/domain/index"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/filter"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search term length.
	MaxQueryLength = 1024
	DefaultTop     = 10
	MaxTop         = 1000
)

// Limits configures the result count bounds.
type Limits struct {
	DefaultTop int
	MaxTop     int
}

// DefaultLimits returns the built-in result count bounds.
func DefaultLimits() Limits {
	return Limits{DefaultTop: DefaultTop, MaxTop: MaxTop}
}

// Request is a validated search query.
type Request struct {
	searchMode mode.Mode
	term       string
	category   string
	filters    filter.Expression
	top        int
}

// New validates and normalizes search parameters. Term and category are
// trimmed; either may be empty. top=0 selects the default; negative values or
// values above the maximum are rejected with domain.ErrValidation.
func New(m mode.Mode, term, category string, top int, lim Limits) (Request, error) {
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid search mode %q: %w", m, domain.ErrValidation)
	}
	if lim.DefaultTop <= 0 {
		lim.DefaultTop = DefaultTop
	}
	if lim.MaxTop <= 0 {
		lim.MaxTop = MaxTop
	}

	term = strings.TrimSpace(term)
	if len(term) > MaxQueryLength {
		return Request{}, fmt.Errorf("search term too long (max %d chars): %w", MaxQueryLength, domain.ErrValidation)
	}

	switch {
	case top == 0:
		top = lim.DefaultTop
	case top < 0:
		return Request{}, fmt.Errorf("top must be positive, got %d: %w", top, domain.ErrValidation)
	case top > lim.MaxTop:
		return Request{}, fmt.Errorf("top must be at most %d, got %d: %w", lim.MaxTop, top, domain.ErrValidation)
	}

	category = strings.TrimSpace(category)
	var conds []filter.Condition
	if category != "" {
		c, err := filter.NewMatch(index.FieldCategory, category)
		if err != nil {
			return Request{}, err
		}
		conds = append(conds, c)
	}
	filters, err := filter.NewExpression(conds...)
	if err != nil {
		return Request{}, err
	}

	return Request{searchMode: m, term: term, category: category, filters: filters, top: top}, nil
}

// Mode returns the search strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Term returns the trimmed full-text term; empty means no text criterion.
func (r *Request) Term() string { return r.term }

// Category returns the trimmed category; empty means no filter.
func (r *Request) Category() string { return r.category }

// Filters returns the exact-match filter expression.
func (r *Request) Filters() filter.Expression { return r.filters }

// Top returns the maximum number of results.
func (r *Request) Top() int { return r.top }

// HasTerm reports whether a full-text criterion is present.
func (r *Request) HasTerm() bool { return r.term != "" }

// HasCategory reports whether a category filter is present.
func (r *Request) HasCategory() bool { return r.category != "" }
