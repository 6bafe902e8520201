package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/paulobarcelos/runway-compass-sub001/internal/sheets"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/googleapi"
)

// Store decorates a tabular store with exponential-backoff retries. The
// Sheets API rate-limits aggressively, so transient 429/5xx responses and
// transport errors are retried until MaxElapsed runs out; anything else
// surfaces immediately.
type Store struct {
	inner      sheets.TabularStore
	maxElapsed time.Duration
	initial    time.Duration
}

var _ sheets.TabularStore = (*Store)(nil)

// Wrap decorates inner with retries. maxElapsed bounds the total time spent
// on one logical call including backoff waits.
func Wrap(inner sheets.TabularStore, maxElapsed time.Duration) *Store {
	return &Store{
		inner:      inner,
		maxElapsed: maxElapsed,
		initial:    backoff.DefaultInitialInterval,
	}
}

func (s *Store) ReadRange(ctx context.Context, rng string) ([][]any, error) {
	var out [][]any
	err := s.retry(ctx, "read", rng, func() error {
		values, err := s.inner.ReadRange(ctx, rng)
		if err != nil {
			return err
		}
		out = values
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) WriteRange(ctx context.Context, rng string, values [][]any) error {
	return s.retry(ctx, "write", rng, func() error {
		return s.inner.WriteRange(ctx, rng, values)
	})
}

func (s *Store) ClearRange(ctx context.Context, rng string) error {
	return s.retry(ctx, "clear", rng, func() error {
		return s.inner.ClearRange(ctx, rng)
	})
}

func (s *Store) retry(ctx context.Context, op, rng string, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.initial
	policy.MaxElapsedTime = s.maxElapsed
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		slog.WarnContext(ctx, "Retrying transient store error",
			"op", op, "range", rng, "attempt", attempt, "error", err)
		return err
	}, backoff.WithContext(policy, ctx))
}

// retryable reports whether the error looks transient. Rate limits and
// server-side failures from the Sheets API qualify; so do plain transport
// errors, which carry no status code at all.
func retryable(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
