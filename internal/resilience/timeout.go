package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// WithTimeout runs fn with a derived context cancelled after timeout. fn must
// honour ctx; its error is returned as is unless the deadline or the parent
// context ended the call, in which case it is annotated with name.
func WithTimeout(ctx context.Context, timeout time.Duration, name string, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(tctx)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return fmt.Errorf("%s: parent context cancelled: %w", name, err)
	case !errors.Is(tctx.Err(), context.DeadlineExceeded):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w (limit: %v)", name, err, timeout)
	default:
		return fmt.Errorf("%s: %w (limit: %v): %w", name, context.DeadlineExceeded, timeout, err)
	}
}
