package retry

import (
	"context"
	"errors"
	"time"
)

type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	// MaxDelay caps the doubled delay; zero means no cap.
	MaxDelay time.Duration
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns the wrapped error
// immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do executes fn up to p.Attempts times with exponential backoff. It stops
// early if the context is canceled or fn returns a Permanent error.
func Do(ctx context.Context, p Policy, fn func() error) error {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	var err error
	delay := p.BaseDelay

	for i := 0; i < p.Attempts; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err = fn(); err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		if i == p.Attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return err
}
