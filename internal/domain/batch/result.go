package batch

// MaxSize is the per-call document ceiling imposed by the search service.
const MaxSize = 1000

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one item in a batch operation.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the item identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// OK reports whether the item was accepted.
func (r Result) OK() bool { return r.status == StatusOK }

// Outcome aggregates per-item results in input order.
type Outcome struct {
	results []Result
}

// NewOutcome wraps results.
func NewOutcome(results []Result) Outcome {
	return Outcome{results: results}
}

// Results returns the per-item results.
func (o Outcome) Results() []Result { return o.results }

// Len returns the number of items.
func (o Outcome) Len() int { return len(o.results) }

// Accepted counts items the service stored.
func (o Outcome) Accepted() int {
	n := 0
	for _, r := range o.results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Rejected counts items that failed validation or were refused by the service.
func (o Outcome) Rejected() int { return len(o.results) - o.Accepted() }

// Failures returns the rejected items only.
func (o Outcome) Failures() []Result {
	var out []Result
	for _, r := range o.results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Merge appends other's results after o's.
func (o Outcome) Merge(other Outcome) Outcome {
	merged := make([]Result, 0, len(o.results)+len(other.results))
	merged = append(merged, o.results...)
	merged = append(merged, other.results...)
	return Outcome{results: merged}
}
