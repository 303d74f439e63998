// Package seed provides the bundled sample documents and a loader for
// user-supplied document files.
package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	domdoc "github.com/kailas-cloud/searchdemo/internal/domain/document"
)

//go:embed documents.json
var bundled []byte

// record is the on-disk document shape shared by JSON and YAML files.
type record struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Content  string `json:"content" yaml:"content"`
	Category string `json:"category" yaml:"category"`
}

// Documents returns the bundled sample documents.
func Documents() []domdoc.Document {
	docs, err := decodeJSON(bundled)
	if err != nil {
		panic("seed: bundled documents are malformed: " + err.Error())
	}
	return docs
}

// LoadFile reads documents from a .json, .yaml or .yml file. Documents are
// not validated here; the ingestor reports invalid ones per item.
func LoadFile(path string) ([]domdoc.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var docs []domdoc.Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		docs, err = decodeJSON(data)
	case ".yaml", ".yml":
		docs, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported document file extension %q: %w", ext, domain.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, domain.ErrValidation, err)
	}
	return docs, nil
}

func decodeJSON(data []byte) ([]domdoc.Document, error) {
	var recs []record
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&recs); err != nil {
		return nil, err
	}
	return toDocuments(recs), nil
}

func decodeYAML(data []byte) ([]domdoc.Document, error) {
	var recs []record
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&recs); err != nil {
		return nil, err
	}
	return toDocuments(recs), nil
}

func toDocuments(recs []record) []domdoc.Document {
	docs := make([]domdoc.Document, len(recs))
	for i, r := range recs {
		docs[i] = domdoc.Reconstruct(r.ID, r.Title, r.Content, r.Category)
	}
	return docs
}
