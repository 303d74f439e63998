package document

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/kailas-cloud/searchdemo/internal/domain"
)

// Key alphabet accepted by the managed search services as a document key.
var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-=]+$`)

const (
	// MaxIDLength is the maximum document key length in bytes.
	MaxIDLength = 1024
	// MaxContentSize is the maximum content size in bytes.
	MaxContentSize = 163840 // 160KB
	// MaxCategoryLength bounds the filterable category value.
	MaxCategoryLength = 256
)

// Document is the unit of indexing (immutable value object).
type Document struct {
	id       string
	title    string
	content  string
	category string
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_\-=]+$, 1-1024 bytes. Title and content are optional free text.
func New(id, title, content, category string) (Document, error) {
	d := Document{id: id, title: title, content: content, category: category}
	if err := d.Validate(); err != nil {
		return Document{}, err
	}
	return d, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id, title, content, category string) Document {
	return Document{id: id, title: title, content: content, category: category}
}

// Validate re-checks the invariants enforced by New.
func (d *Document) Validate() error {
	if d.id == "" {
		return fmt.Errorf("document ID is required: %w", domain.ErrValidation)
	}
	if len(d.id) > MaxIDLength {
		return fmt.Errorf("document ID too long (max %d): %w", MaxIDLength, domain.ErrValidation)
	}
	if !idRegex.MatchString(d.id) {
		return fmt.Errorf(
			"document ID %q must contain only letters, digits, '_', '-' or '=': %w", d.id, domain.ErrValidation,
		)
	}
	if len(d.content) > MaxContentSize {
		return fmt.Errorf("content too large (max %d bytes): %w", MaxContentSize, domain.ErrValidation)
	}
	if len(d.category) > MaxCategoryLength {
		return fmt.Errorf("category too long (max %d bytes): %w", MaxCategoryLength, domain.ErrValidation)
	}
	for _, s := range []string{d.title, d.content, d.category} {
		if !utf8.ValidString(s) {
			return fmt.Errorf("document %q contains invalid UTF-8: %w", d.id, domain.ErrValidation)
		}
	}
	return nil
}

// ID returns the document key.
func (d *Document) ID() string { return d.id }

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// Content returns the document body text.
func (d *Document) Content() string { return d.content }

// Category returns the filterable category label.
func (d *Document) Category() string { return d.category }
