package health

import "context"

// StorePinger checks search service availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// AnswerChecker checks chat provider availability.
type AnswerChecker interface {
	HealthCheck(ctx context.Context) error
}
