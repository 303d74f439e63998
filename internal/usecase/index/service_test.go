package index

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	domindex "github.com/kailas-cloud/searchdemo/internal/domain/index"
	"github.com/kailas-cloud/searchdemo/internal/domain/index/field"
)

// --- Mocks ---

type mockRepo struct {
	exists    bool
	existsErr error
	createErr []error // consumed per call
	dropErr   error

	calls   []string
	created []domindex.Definition
}

func (m *mockRepo) Exists(_ context.Context, _ string) (bool, error) {
	m.calls = append(m.calls, "exists")
	return m.exists, m.existsErr
}

func (m *mockRepo) Create(_ context.Context, def domindex.Definition) error {
	m.calls = append(m.calls, "create")
	m.created = append(m.created, def)
	if len(m.createErr) > 0 {
		err := m.createErr[0]
		m.createErr = m.createErr[1:]
		return err
	}
	return nil
}

func (m *mockRepo) Drop(_ context.Context, _ string) error {
	m.calls = append(m.calls, "drop")
	return m.dropErr
}

func docIndex(t *testing.T) domindex.Definition {
	t.Helper()
	def, err := domindex.DocumentIndex("demo-documents")
	if err != nil {
		t.Fatalf("DocumentIndex: %v", err)
	}
	return def
}

func equalCalls(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// --- Tests ---

func TestEnsureIndex_CreatesWhenAbsent(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	if err := svc.EnsureIndex(context.Background(), docIndex(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalCalls(repo.calls, "exists", "create") {
		t.Errorf("calls = %v", repo.calls)
	}
}

func TestEnsureIndex_RecreatesWhenPresent(t *testing.T) {
	repo := &mockRepo{exists: true}
	svc := New(repo)

	if err := svc.EnsureIndex(context.Background(), docIndex(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalCalls(repo.calls, "exists", "drop", "create") {
		t.Errorf("calls = %v", repo.calls)
	}
}

func TestEnsureIndex_TwiceYieldsSameSchema(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)
	ctx := context.Background()

	if err := svc.EnsureIndex(ctx, docIndex(t)); err != nil {
		t.Fatal(err)
	}
	repo.exists = true
	if err := svc.EnsureIndex(ctx, docIndex(t)); err != nil {
		t.Fatal(err)
	}
	if len(repo.created) != 2 {
		t.Fatalf("expected 2 creates, got %d", len(repo.created))
	}
	a, b := repo.created[0].Fields(), repo.created[1].Fields()
	if len(a) != len(b) {
		t.Fatalf("field count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name() != b[i].Name() || a[i].Attrs() != b[i].Attrs() {
			t.Errorf("field %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestEnsureIndex_CreateRaceRecreatesOnce(t *testing.T) {
	exists := domain.NewServiceError("create_index", "demo-documents", domain.ErrIndexExists)
	repo := &mockRepo{createErr: []error{exists}}
	svc := New(repo)

	if err := svc.EnsureIndex(context.Background(), docIndex(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalCalls(repo.calls, "exists", "create", "drop", "create") {
		t.Errorf("calls = %v", repo.calls)
	}
}

func TestEnsureIndex_InvalidSchemaMakesNoCall(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	bad := domindex.Reconstruct("demo", []field.Field{field.Searchable("title")}) // no key
	err := svc.EnsureIndex(context.Background(), bad)
	if !errors.Is(err, domain.ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
	if len(repo.calls) != 0 {
		t.Errorf("expected no calls, got %v", repo.calls)
	}
}

func TestEnsureIndex_Unauthorized(t *testing.T) {
	authErr := domain.NewServiceError("get_index", "demo-documents", domain.ErrUnauthorized)
	repo := &mockRepo{existsErr: authErr}
	svc := New(repo)

	err := svc.EnsureIndex(context.Background(), docIndex(t))
	if domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("kind = %q, err = %v", domain.KindOf(err), err)
	}
	if !equalCalls(repo.calls, "exists") {
		t.Errorf("calls = %v", repo.calls)
	}
}

func TestEnsureIndex_DropNotFoundIsIgnored(t *testing.T) {
	repo := &mockRepo{exists: true, dropErr: domain.NewServiceError("drop_index", "x", domain.ErrIndexNotFound)}
	svc := New(repo)
	if err := svc.EnsureIndex(context.Background(), docIndex(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteIndex(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)
	if err := svc.DeleteIndex(context.Background(), "demo"); err != nil {
		t.Fatal(err)
	}

	repo.dropErr = errors.New("boom")
	if err := svc.DeleteIndex(context.Background(), "demo"); err == nil {
		t.Error("expected error")
	}
}

func TestHold_BlocksRecreation(t *testing.T) {
	repo := &mockRepo{exists: true}
	svc := New(repo)

	release := svc.Hold()
	var done atomic.Bool
	go func() {
		_ = svc.EnsureIndex(context.Background(), docIndex(t))
		done.Store(true)
	}()

	time.Sleep(20 * time.Millisecond)
	if done.Load() {
		t.Fatal("recreation must wait for held uploads")
	}
	release()

	deadline := time.Now().Add(time.Second)
	for !done.Load() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !done.Load() {
		t.Fatal("recreation did not proceed after release")
	}
}
