package batch

import (
	"errors"
	"testing"
)

func TestNewOK(t *testing.T) {
	r := NewOK("doc-1")
	if r.ID() != "doc-1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Status() != StatusOK || !r.OK() {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusOK)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestNewError(t *testing.T) {
	err := errors.New("something failed")
	r := NewError("doc-2", err)
	if r.ID() != "doc-2" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Status() != StatusError || r.OK() {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusError)
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestOutcome_Counts(t *testing.T) {
	o := NewOutcome([]Result{
		NewOK("1"),
		NewError("2", errors.New("bad key")),
		NewOK("3"),
	})
	if o.Len() != 3 {
		t.Errorf("Len() = %d", o.Len())
	}
	if o.Accepted() != 2 {
		t.Errorf("Accepted() = %d", o.Accepted())
	}
	if o.Rejected() != 1 {
		t.Errorf("Rejected() = %d", o.Rejected())
	}
	f := o.Failures()
	if len(f) != 1 || f[0].ID() != "2" {
		t.Errorf("Failures() = %v", f)
	}
}

func TestOutcome_MergeKeepsOrder(t *testing.T) {
	a := NewOutcome([]Result{NewOK("1"), NewOK("2")})
	b := NewOutcome([]Result{NewError("3", errors.New("x"))})

	m := a.Merge(b)
	if m.Len() != 3 {
		t.Fatalf("Len() = %d", m.Len())
	}
	for i, want := range []string{"1", "2", "3"} {
		if m.Results()[i].ID() != want {
			t.Errorf("Results()[%d] = %q, want %q", i, m.Results()[i].ID(), want)
		}
	}
	if a.Len() != 2 {
		t.Error("Merge must not mutate receiver")
	}
}

func TestOutcome_Empty(t *testing.T) {
	var o Outcome
	if o.Accepted() != 0 || o.Rejected() != 0 || o.Failures() != nil {
		t.Error("zero Outcome should be empty")
	}
}
