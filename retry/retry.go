// Package retry provides bounded exponential backoff for operations
// that can fail transiently, such as loading files still being written
// by an upstream transfer.
package retry

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

type Settings struct {
	InitialBackoff time.Duration
	Multiplier     int
	MaxBackoff     time.Duration
	// MaxAttempts caps the total number of attempts; 0 means a single
	// attempt with no retries.
	MaxAttempts int
}

func (s Settings) Verify() error {
	if s.MaxAttempts > 1 {
		if s.InitialBackoff <= 0 {
			return errors.Newf("initial backoff must be > 0, got %s", s.InitialBackoff)
		}
		if s.Multiplier < 1 {
			return errors.Newf("multiplier must be >= 1, got %d", s.Multiplier)
		}
	}
	if s.MaxBackoff > 0 && s.InitialBackoff > s.MaxBackoff {
		return errors.Newf(
			"initial backoff (%s) must not exceed max backoff (%s)",
			s.InitialBackoff, s.MaxBackoff,
		)
	}
	return nil
}

func DefaultSettings() Settings {
	return Settings{
		InitialBackoff: 500 * time.Millisecond,
		Multiplier:     2,
		MaxBackoff:     5 * time.Second,
		MaxAttempts:    3,
	}
}

// Do runs fn until it succeeds, attempts are exhausted, or the context
// is done. The last attempt's error is returned.
func Do(ctx context.Context, settings Settings, fn func() error) error {
	if err := settings.Verify(); err != nil {
		return err
	}
	attempts := settings.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := settings.InitialBackoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return errors.CombineErrors(ctx.Err(), err)
		case <-time.After(backoff):
		}
		backoff *= time.Duration(settings.Multiplier)
		if settings.MaxBackoff > 0 && backoff > settings.MaxBackoff {
			backoff = settings.MaxBackoff
		}
	}
}
