package retry

import (
	"context"
	"time"

	"github.com/bitcoinblocks/backend/pkg/crypto"
)

type Options struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Do calls op until it succeeds or MaxAttempts is reached. Between attempts
// it sleeps an exponentially growing delay with jitter. The error of the last
// attempt is returned after exhaustion.
func Do[T any](ctx context.Context, opts Options, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}

	var lastErr error
	delay := opts.BaseDelay
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			jittered := delay + time.Duration(crypto.RandIntn(int(delay)+1))
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(jittered):
			}

			delay *= 2
			if opts.MaxDelay > 0 && delay > opts.MaxDelay {
				delay = opts.MaxDelay
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err
	}

	return zero, lastErr
}
