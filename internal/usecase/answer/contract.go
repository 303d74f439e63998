package answer

import (
	"context"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/result"
)

// Searcher retrieves the context documents for a question.
type Searcher interface {
	Keyword(ctx context.Context, term string, top int) ([]result.Result, error)
}

// Completer generates the answer text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (domain.Completion, error)
}
