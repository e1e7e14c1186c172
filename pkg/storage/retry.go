package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultRetryAttempts is how many times a conflicting transaction is tried.
const DefaultRetryAttempts = 3

// RetryPolicy bounds how often a read-then-commit operation is repeated after
// ErrTransactionConflict.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy is used when no policy is configured.
var DefaultRetryPolicy = RetryPolicy{Attempts: DefaultRetryAttempts, Backoff: 20 * time.Millisecond}

// Do runs fn until it returns something other than ErrTransactionConflict or
// the attempts are used up. fn must redo its reads on every call. The last
// conflict is returned when all attempts fail.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, ErrTransactionConflict) {
			return err
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Backoff * time.Duration(attempt)):
		}
	}
	return err
}
