package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the search service is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckSearch = "search"
	CheckAnswer = "answer"
)

const defaultCheckTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	Errors map[string]string
}

// Service coordinates health checks.
type Service struct {
	store   StorePinger
	answer  AnswerChecker
	timeout time.Duration
}

// New creates a Service. answer can be nil.
func New(store StorePinger, answer AnswerChecker) *Service {
	return &Service{store: store, answer: answer, timeout: defaultCheckTimeout}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: map[string]CheckResult{}, Errors: map[string]string{}}

	if !s.run(ctx, &r, CheckSearch, s.store.Ping) {
		r.Status = Unhealthy
	}
	if s.answer != nil && !s.run(ctx, &r, CheckAnswer, s.answer.HealthCheck) && r.Status == Healthy {
		r.Status = Degraded
	}
	return r
}

func (s *Service) run(ctx context.Context, r *Report, name string, check func(context.Context) error) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := check(ctx); err != nil {
		r.Checks[name] = CheckError
		r.Errors[name] = err.Error()
		return false
	}
	r.Checks[name] = CheckOK
	return true
}
