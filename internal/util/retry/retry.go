package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned (wrapped) when a poll gives up before its condition
// holds, either because the timeout expired or the attempt cap was reached.
var ErrTimeout = errors.New("timed out")

// Config holds retry configuration.
type Config struct {
	Interval    time.Duration
	Timeout     time.Duration // 0 means no deadline
	MaxAttempts int           // 0 means no attempt cap
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// WithInterval sets the delay between attempts.
func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Interval = d
	}
}

// WithTimeout sets an overall deadline for the poll. Zero disables the
// deadline, which is the default: lifecycle waits block until the instance
// turns up unless a deployment configures otherwise.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxAttempts caps the number of attempts.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// Poll calls cond at a fixed interval until it reports true, the context is
// cancelled, the timeout expires, or the attempt cap is reached.
//
// cond signals "not yet" by returning (false, nil); any error it returns
// aborts the poll immediately.
func Poll(ctx context.Context, cond func() (bool, error), opts ...Option) error {
	cfg := &Config{
		Interval: time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var deadline <-chan time.Time
	if cfg.Timeout > 0 {
		timer := time.NewTimer(cfg.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for attempt := 1; ; attempt++ {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			return fmt.Errorf("condition not met after %d attempts: %w", attempt, ErrTimeout)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-deadline:
			return fmt.Errorf("condition not met after %v: %w", cfg.Timeout, ErrTimeout)
		case <-time.After(cfg.Interval):
		}
	}
}

// Do executes the operation until it succeeds or the attempt cap is reached,
// waiting the configured interval between attempts. Errors wrapped with
// Fatal() are not retried.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	cfg := &Config{
		Interval:    time.Second,
		MaxAttempts: 5,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			return fmt.Errorf("operation failed after %d attempts: %w", attempt, lastErr)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(cfg.Interval):
		}
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
// Operations that encounter fatal errors will not be retried.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
