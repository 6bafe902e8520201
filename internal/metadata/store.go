// Package metadata manages the key-value region that holds the horizon
// configuration. The region is shared with other subsystems, so every write
// is a read-modify-write over the full key set: unrelated keys pass through
// untouched, in their original order.
package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/paulobarcelos/runway-compass-sub001/internal/core"
	"github.com/paulobarcelos/runway-compass-sub001/internal/sheets"
)

const (
	KeyHorizonStart      = "horizon_start"
	KeyHorizonMonthCount = "horizon_month_count"

	// DefaultMonthCount is substituted when the stored count is missing or
	// malformed.
	DefaultMonthCount = 12

	startLayout      = "2006-01-02"
	startMonthLayout = "2006-01"
)

// Entry is one key-value row of the region.
type Entry struct {
	Key   string
	Value string
}

type Store struct {
	store sheets.TabularStore
	sheet string
}

func NewStore(store sheets.TabularStore, sheet string) *Store {
	return &Store{store: store, sheet: sheet}
}

// LoadEntries reads the whole region. Rows without a key are dropped; value
// cells may be blank.
func (s *Store) LoadEntries(ctx context.Context) ([]Entry, error) {
	values, err := s.store.ReadRange(ctx, fmt.Sprintf("%s!A:B", s.sheet))
	if err != nil {
		return nil, fmt.Errorf("read metadata region: %w", err)
	}
	var out []Entry
	for _, row := range values {
		key := ""
		if len(row) > 0 {
			key = strings.TrimSpace(fmt.Sprint(row[0]))
		}
		if key == "" {
			continue
		}
		value := ""
		if len(row) > 1 {
			value = strings.TrimSpace(fmt.Sprint(row[1]))
		}
		out = append(out, Entry{Key: key, Value: value})
	}
	return out, nil
}

// SaveEntries rewrites the whole region.
func (s *Store) SaveEntries(ctx context.Context, entries []Entry) error {
	if err := s.store.ClearRange(ctx, fmt.Sprintf("%s!A:B", s.sheet)); err != nil {
		return fmt.Errorf("clear metadata region: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{e.Key, e.Value})
	}
	rng := fmt.Sprintf("%s!A1:B%d", s.sheet, len(rows))
	if err := s.store.WriteRange(ctx, rng, rows); err != nil {
		return fmt.Errorf("write metadata region: %w", err)
	}
	return nil
}

// Horizon reads the stored horizon, substituting defaults for anything
// missing or malformed. It only fails when the region cannot be read at all.
func (s *Store) Horizon(ctx context.Context, now time.Time) (core.HorizonMetadata, error) {
	entries, err := s.LoadEntries(ctx)
	if err != nil {
		return core.HorizonMetadata{}, err
	}
	return EnsureHorizon(ctx, entries, now), nil
}

// SetHorizon persists the horizon keys, preserving every unrelated key in
// the region. Entries keep their position; missing keys are appended.
func (s *Store) SetHorizon(ctx context.Context, meta core.HorizonMetadata) error {
	meta = meta.Normalized()
	if err := meta.Validate(); err != nil {
		return err
	}
	entries, err := s.LoadEntries(ctx)
	if err != nil {
		return err
	}
	entries = upsert(entries, KeyHorizonStart, meta.Start.Format(startLayout))
	entries = upsert(entries, KeyHorizonMonthCount, strconv.Itoa(meta.MonthCount))
	return s.SaveEntries(ctx, entries)
}

// EnsureHorizon derives a usable horizon from raw region entries. It never
// fails: a start that does not look like an ISO date becomes the first of
// the current month, an unparseable count becomes DefaultMonthCount, and the
// final count is clamped into the valid range.
func EnsureHorizon(ctx context.Context, entries []Entry, now time.Time) core.HorizonMetadata {
	raw := map[string]string{}
	for _, e := range entries {
		raw[e.Key] = e.Value
	}

	start := core.NewDate(now.Year(), int(now.Month()), 1)
	if v := raw[KeyHorizonStart]; v != "" {
		if t, err := parseStart(v); err == nil {
			start = core.NewDate(t.Year(), int(t.Month()), 1)
		} else {
			slog.WarnContext(ctx, "Malformed horizon start in metadata region, using current month",
				"value", v)
		}
	}

	count := DefaultMonthCount
	if v := raw[KeyHorizonMonthCount]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			count = n
		} else {
			slog.WarnContext(ctx, "Malformed horizon month count in metadata region, using default",
				"value", v, "default", DefaultMonthCount)
		}
	}
	if count < core.MinMonthCount {
		count = core.MinMonthCount
	}
	if count > core.MaxMonthCount {
		count = core.MaxMonthCount
	}

	return core.HorizonMetadata{Start: start, MonthCount: count}
}

func parseStart(v string) (time.Time, error) {
	if t, err := time.Parse(startLayout, v); err == nil {
		return t, nil
	}
	return time.Parse(startMonthLayout, v)
}

func upsert(entries []Entry, key, value string) []Entry {
	for i := range entries {
		if entries[i].Key == key {
			entries[i].Value = value
			return entries
		}
	}
	return append(entries, Entry{Key: key, Value: value})
}
