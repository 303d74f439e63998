package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/result"
	"github.com/kailas-cloud/searchdemo/internal/logger"
)

// SystemPrompt frames every completion.
const SystemPrompt = "You are a helpful AI assistant that answers questions based on provided context."

// DefaultContextDocuments is used when no document count is configured.
const DefaultContextDocuments = 5

// Answer is a generated response with the documents it was grounded on.
type Answer struct {
	Text    string
	Sources []result.Result
}

// Service answers questions from the top search hits.
type Service struct {
	search    Searcher
	completer Completer
	contextN  int
}

// New creates an answer service. completer may be nil when no chat provider
// is configured; Ask then fails with domain.ErrConfiguration.
func New(search Searcher, completer Completer, contextDocuments int) *Service {
	if contextDocuments <= 0 {
		contextDocuments = DefaultContextDocuments
	}
	return &Service{search: search, completer: completer, contextN: contextDocuments}
}

// Enabled reports whether a chat provider is configured.
func (s *Service) Enabled() bool { return s.completer != nil }

// Ask searches for question and asks the chat model to answer from the hits.
func (s *Service) Ask(ctx context.Context, question string) (Answer, error) {
	if s.completer == nil {
		return Answer{}, fmt.Errorf("answer provider is not configured: %w", domain.ErrConfiguration)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, fmt.Errorf("question is required: %w", domain.ErrValidation)
	}

	hits, err := s.search.Keyword(ctx, question, s.contextN)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	out, err := s.completer.Complete(ctx, SystemPrompt, buildPrompt(question, hits))
	if err != nil {
		return Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	logger.FromContext(ctx).Debug("answer generated",
		zap.Int("sources", len(hits)),
		zap.Int("prompt_tokens", out.PromptTokens),
		zap.Int("completion_tokens", out.CompletionTokens),
	)
	return Answer{Text: strings.TrimSpace(out.Text), Sources: hits}, nil
}

// buildPrompt joins one "Title/Content" block per hit with the question.
func buildPrompt(question string, hits []result.Result) string {
	blocks := make([]string, 0, len(hits))
	for i := range hits {
		d := hits[i].Document()
		blocks = append(blocks, fmt.Sprintf("Title: %s\nContent: %s", d.Title(), d.Content()))
	}

	var b strings.Builder
	b.WriteString("Context: ")
	b.WriteString(strings.Join(blocks, "\n\n"))
	b.WriteString("\n\nQuery: ")
	b.WriteString(question)
	b.WriteString("\n\nBased on the provided context, generate a comprehensive and precise answer to the query.\n")
	b.WriteString("If the context doesn't contain sufficient information, acknowledge that transparently.")
	return b.String()
}
