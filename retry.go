package partdex

import (
	"context"
	"time"
)

// RetryPolicy describes bounded exponential backoff for a network call: a
// first-class value passed to the operations it wraps rather than an
// implicit decoration.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Multiplier  float64
}

// Retry policies observed to work well against the vendor API: page fetches
// recover quickly, the category listing endpoint needs a long first pause.
func PageRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Delay: 2 * time.Second, Multiplier: 2}
}

func CategoryRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Delay: 30 * time.Second, Multiplier: 2}
}

// ChunkRetryPolicy is the backoff for chunk downloads during reassembly.
func ChunkRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 1 * time.Second, Multiplier: 2}
}

// Do invokes fn, retrying with exponential backoff until it succeeds, the
// attempts are exhausted, the context is canceled, or the error is one that
// retrying cannot fix (EINTEGRITY, EINVALID, ENOTFOUND).
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	delay := p.Delay
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * p.Multiplier)
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		switch ErrorCode(lastErr) {
		case EINTEGRITY, EINVALID, ENOTFOUND:
			return lastErr
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}
