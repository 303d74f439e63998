package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	domdoc "github.com/kailas-cloud/searchdemo/internal/domain/document"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/mode"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/request"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/result"
)

// --- Mocks ---

type mockRepo struct {
	results []result.Result
	err     error

	called  int
	lastIdx string
	lastReq request.Request
}

func (m *mockRepo) Search(_ context.Context, index string, req request.Request) ([]result.Result, error) {
	m.called++
	m.lastIdx = index
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	if m.results == nil {
		return []result.Result{}, nil
	}
	return m.results, nil
}

func hits(ids ...string) []result.Result {
	out := make([]result.Result, len(ids))
	for i, id := range ids {
		out[i] = result.New(domdoc.Reconstruct(id, "t", "c", "AI"), float64(len(ids)-i))
	}
	return out
}

func newService(repo *mockRepo, policy mode.EmptyTermPolicy) *Service {
	return New(repo, "demo-documents", Options{Limits: request.DefaultLimits(), EmptyTerm: policy})
}

// --- Keyword ---

func TestKeyword(t *testing.T) {
	repo := &mockRepo{results: hits("1", "2")}
	svc := newService(repo, mode.MatchAll)

	got, err := svc.Keyword(context.Background(), "  Azure  ", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID() != "1" {
		t.Errorf("results = %v", got)
	}
	if repo.lastIdx != "demo-documents" {
		t.Errorf("index = %q", repo.lastIdx)
	}
	if repo.lastReq.Term() != "Azure" || repo.lastReq.HasCategory() {
		t.Errorf("request term=%q category=%q", repo.lastReq.Term(), repo.lastReq.Category())
	}
	if repo.lastReq.Top() != request.DefaultTop {
		t.Errorf("top = %d", repo.lastReq.Top())
	}
}

func TestKeyword_EmptyTermMatchAll(t *testing.T) {
	repo := &mockRepo{results: hits("1", "2", "3")}
	svc := newService(repo, mode.MatchAll)

	got, err := svc.Keyword(context.Background(), "   ", 0)
	if err != nil {
		t.Fatal(err)
	}
	if repo.called != 1 || repo.lastReq.HasTerm() {
		t.Errorf("expected a match-all call, called=%d term=%q", repo.called, repo.lastReq.Term())
	}
	if len(got) != 3 {
		t.Errorf("len = %d", len(got))
	}
}

func TestKeyword_EmptyTermNoResults(t *testing.T) {
	repo := &mockRepo{results: hits("1")}
	svc := newService(repo, mode.NoResults)

	got, err := svc.Keyword(context.Background(), "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
	if repo.called != 0 {
		t.Errorf("expected no service call, got %d", repo.called)
	}
}

func TestNew_InvalidPolicyDefaultsToMatchAll(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, "demo", Options{EmptyTerm: "bogus"})

	if _, err := svc.Keyword(context.Background(), "", 0); err != nil {
		t.Fatal(err)
	}
	if repo.called != 1 {
		t.Errorf("expected match-all call, got %d", repo.called)
	}
}

func TestKeyword_TopValidation(t *testing.T) {
	tests := []struct {
		name string
		top  int
		ok   bool
	}{
		{"default", 0, true},
		{"one", 1, true},
		{"max", request.MaxTop, true},
		{"negative", -1, false},
		{"over max", request.MaxTop + 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			svc := newService(repo, mode.MatchAll)
			_, err := svc.Keyword(context.Background(), "x", tt.top)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				if repo.called != 0 {
					t.Error("invalid top must not reach the service")
				}
			}
		})
	}
}

func TestKeyword_ServiceError(t *testing.T) {
	svcErr := domain.NewServiceError("search", "demo-documents", domain.ErrTransient)
	svc := newService(&mockRepo{err: svcErr}, mode.MatchAll)

	_, err := svc.Keyword(context.Background(), "x", 0)
	if domain.KindOf(err) != domain.KindService {
		t.Fatalf("kind = %q, err = %v", domain.KindOf(err), err)
	}
	var se *domain.ServiceError
	if !errors.As(err, &se) || se.Index != "demo-documents" {
		t.Errorf("expected ServiceError with index, got %v", err)
	}
}

// --- ByCategory ---

func TestByCategory(t *testing.T) {
	repo := &mockRepo{results: hits("3")}
	svc := newService(repo, mode.MatchAll)

	got, err := svc.ByCategory(context.Background(), "AI", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d", len(got))
	}
	if repo.lastReq.Category() != "AI" || repo.lastReq.HasTerm() || repo.lastReq.Top() != 5 {
		t.Errorf("request = category %q term %q top %d",
			repo.lastReq.Category(), repo.lastReq.Term(), repo.lastReq.Top())
	}
	if repo.lastReq.Mode() != mode.Category {
		t.Errorf("mode = %q", repo.lastReq.Mode())
	}
}

func TestByCategory_UnknownIsEmpty(t *testing.T) {
	svc := newService(&mockRepo{}, mode.MatchAll)

	got, err := svc.ByCategory(context.Background(), "Nonexistent", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %d", len(got))
	}
}

func TestByCategory_EmptyIsValidationError(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, mode.MatchAll)

	_, err := svc.ByCategory(context.Background(), "  ", 0)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if repo.called != 0 {
		t.Error("expected no service call")
	}
}

func TestByCategory_QuoteIsPassedThrough(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, mode.MatchAll)

	if _, err := svc.ByCategory(context.Background(), "O'Reilly", 0); err != nil {
		t.Fatal(err)
	}
	if repo.lastReq.Category() != "O'Reilly" {
		t.Errorf("category = %q", repo.lastReq.Category())
	}
}

// --- Advanced ---

func TestAdvanced_Fallbacks(t *testing.T) {
	tests := []struct {
		name         string
		term, cat    string
		wantTerm     bool
		wantCategory bool
	}{
		{"both", "Azure", "AI", true, true},
		{"term only", "Azure", "", true, false},
		{"category only", "", "AI", false, true},
		{"neither", " ", " ", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			svc := newService(repo, mode.NoResults)

			if _, err := svc.Advanced(context.Background(), tt.term, tt.cat, 3); err != nil {
				t.Fatal(err)
			}
			if repo.called != 1 {
				t.Fatalf("called = %d", repo.called)
			}
			if repo.lastReq.HasTerm() != tt.wantTerm || repo.lastReq.HasCategory() != tt.wantCategory {
				t.Errorf("term=%v category=%v", repo.lastReq.HasTerm(), repo.lastReq.HasCategory())
			}
			if repo.lastReq.Top() != 3 {
				t.Errorf("top = %d", repo.lastReq.Top())
			}
		})
	}
}

func TestAdvanced_BlankInputsIgnoreEmptyTermPolicy(t *testing.T) {
	repo := &mockRepo{results: hits("1", "2")}
	svc := newService(repo, mode.NoResults)

	got, err := svc.Keyword(context.Background(), "", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 || repo.called != 0 {
		t.Fatalf("keyword: got %d results, called = %d", len(got), repo.called)
	}

	got, err = svc.Advanced(context.Background(), "", "", 5)
	if err != nil {
		t.Fatal(err)
	}
	if repo.called != 1 {
		t.Fatalf("advanced: called = %d", repo.called)
	}
	if len(got) != 2 {
		t.Errorf("advanced: got %d results, want 2", len(got))
	}
}

func TestAdvanced_InvalidTop(t *testing.T) {
	svc := newService(&mockRepo{}, mode.MatchAll)
	if _, err := svc.Advanced(context.Background(), "x", "AI", -5); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
