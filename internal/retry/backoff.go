// Package retry re-runs a failing operation a bounded number of times
// with a pause between tries.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is wrapped by the error Do returns once every attempt
// has failed.
var ErrExhausted = errors.New("retry: attempts exhausted")

// PermanentError marks an error that retrying cannot fix.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so that Do returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err has been marked as permanent.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// Backoff is a retry policy.  The pause starts at Delay and is
// multiplied by Multiplier after each retry, up to MaxDelay.
type Backoff struct {
	Delay      time.Duration
	MaxDelay   time.Duration // 0 means no cap
	Multiplier float64       // values below 1 are treated as 1

	// MaxAttempts is the total number of tries including the first.
	// Zero means unlimited (until the context is cancelled).
	MaxAttempts int

	// OnRetry, when set, is called after a failed attempt and before
	// the pause that precedes the next one.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// Fixed returns a Backoff making at most attempts tries, delay apart.
func Fixed(delay time.Duration, attempts int) *Backoff {
	return &Backoff{Delay: delay, Multiplier: 1, MaxAttempts: attempts}
}

// Do calls fn until it succeeds, returns a [Permanent] error, runs out
// of attempts or ctx is done.  The attempt passed to fn is 1-based.
// No pause follows the last attempt.
func (b *Backoff) Do(ctx context.Context, fn func(attempt int) error) error {
	wait := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		switch {
		case err == nil:
			return nil
		case IsPermanent(err):
			return errors.Unwrap(err)
		case b.MaxAttempts > 0 && attempt >= b.MaxAttempts:
			return fmt.Errorf("%w after %d tries: %w", ErrExhausted, attempt, err)
		}

		if b.OnRetry != nil {
			b.OnRetry(attempt, err, wait)
		}
		if err := pause(ctx, wait); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
		wait = b.next(wait)
	}
}

func (b *Backoff) next(wait time.Duration) time.Duration {
	if b.Multiplier > 1 {
		wait = time.Duration(float64(wait) * b.Multiplier)
	}
	if b.MaxDelay > 0 && wait > b.MaxDelay {
		wait = b.MaxDelay
	}
	return wait
}

func pause(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
