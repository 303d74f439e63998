package result

import domdoc "github.com/kailas-cloud/searchdemo/internal/domain/document"

// Result is a single search hit.
type Result struct {
	doc   domdoc.Document
	score float64
}

// New creates a search result.
func New(doc domdoc.Document, score float64) Result {
	return Result{doc: doc, score: score}
}

// Document returns the matched document.
func (r *Result) Document() domdoc.Document { return r.doc }

// ID returns the document key.
func (r *Result) ID() string { return r.doc.ID() }

// Score returns the relevance score reported by the service.
func (r *Result) Score() float64 { return r.score }
