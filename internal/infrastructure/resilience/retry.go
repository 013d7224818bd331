package resilience

import (
	"context"
	"errors"
	"time"
)

// ErrPermanent marks an error that must not be retried.
var ErrPermanent = errors.New("permanent failure")

// Permanent wraps err so Retry returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }
func (p *permanentError) Is(target error) bool {
	return target == ErrPermanent
}

// Settings configures retry behavior.
type Settings struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// Backoff is the delay before the second attempt; it doubles each retry.
	Backoff time.Duration
	// MaxBackoff caps the per-attempt delay. Zero means no cap.
	MaxBackoff time.Duration
}

// DefaultSettings returns the retry policy used for flaky OS automation
// calls: three attempts with exponential backoff starting at 200ms.
func DefaultSettings() Settings {
	return Settings{
		Attempts: 3,
		Backoff:  200 * time.Millisecond,
	}
}

// Retry runs fn up to s.Attempts times, sleeping between attempts with
// exponential backoff. It stops early on success, on a Permanent error, or
// when ctx is done. The last error is returned.
func Retry(ctx context.Context, s Settings, fn func() error) error {
	if s.Attempts <= 0 {
		s.Attempts = 1
	}
	delay := s.Backoff

	var err error
	for attempt := 0; attempt < s.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if s.MaxBackoff > 0 && delay > s.MaxBackoff {
				delay = s.MaxBackoff
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrPermanent) {
			var perm *permanentError
			if errors.As(err, &perm) {
				return perm.err
			}
			return err
		}
	}
	return err
}
