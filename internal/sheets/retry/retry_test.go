package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

// flakyStore fails a fixed number of times before succeeding.
type flakyStore struct {
	failures int
	err      error
	calls    int
}

func (f *flakyStore) ReadRange(_ context.Context, _ string) ([][]any, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return [][]any{{"ok"}}, nil
}

func (f *flakyStore) WriteRange(_ context.Context, _ string, _ [][]any) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func (f *flakyStore) ClearRange(_ context.Context, _ string) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func wrapFast(inner *flakyStore) *Store {
	s := Wrap(inner, 2*time.Second)
	s.initial = time.Millisecond
	return s
}

func TestRetriesRateLimitThenSucceeds(t *testing.T) {
	inner := &flakyStore{failures: 2, err: &googleapi.Error{Code: 429, Message: "rate limit"}}
	s := wrapFast(inner)

	values, err := s.ReadRange(context.Background(), "Plan!A:B")
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.calls)
	}
	if len(values) != 1 {
		t.Fatalf("lost the successful result: %v", values)
	}
}

func TestRetriesServerErrorOnWrite(t *testing.T) {
	inner := &flakyStore{failures: 1, err: &googleapi.Error{Code: 503, Message: "backend"}}
	s := wrapFast(inner)

	if err := s.WriteRange(context.Background(), "Plan!A1:A1", [][]any{{"x"}}); err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", inner.calls)
	}
}

func TestDoesNotRetryClientError(t *testing.T) {
	permanent := &googleapi.Error{Code: 404, Message: "no such sheet"}
	inner := &flakyStore{failures: 10, err: permanent}
	s := wrapFast(inner)

	_, err := s.ReadRange(context.Background(), "Plan!A:B")
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != 404 {
		t.Fatalf("expected the 404 to surface, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", inner.calls)
	}
}

func TestRetriesTransportError(t *testing.T) {
	inner := &flakyStore{failures: 1, err: errors.New("connection reset")}
	s := wrapFast(inner)

	if err := s.ClearRange(context.Background(), "Plan!A:B"); err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", inner.calls)
	}
}

func TestStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inner := &flakyStore{failures: 10, err: &googleapi.Error{Code: 429}}
	s := wrapFast(inner)

	_, err := s.ReadRange(ctx, "Plan!A:B")
	if err == nil {
		t.Fatalf("expected error after cancellation")
	}
}
