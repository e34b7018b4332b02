package llm

import (
	"context"
	"errors"
	"net/url"
	"time"

	"interview-prep-be/pkg/apperror"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig bounds the attempts made for one model call.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      2,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     8 * time.Second,
	}
}

// IsTransient reports whether err is a 429/5xx answer or a transport failure.
func IsTransient(err error) bool {
	var upstreamErr *apperror.UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Transient()
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Do runs fn and retries it with exponential backoff while it fails transiently.
// Everything else, including context cancellation, stops at the first failure.
func Do[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	if rc.InitialInterval > 0 {
		b.InitialInterval = rc.InitialInterval
	}
	if rc.MaxInterval > 0 {
		b.MaxInterval = rc.MaxInterval
	}
	b.MaxElapsedTime = 0

	maxRetries := rc.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx)

	var result T
	err := backoff.Retry(func() error {
		v, err := fn()
		if err == nil {
			result = v
			return nil
		}
		if ctx.Err() != nil || !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
	return result, err
}
