// Package plan implements the budget-horizon storage engine: it derives the
// month sequence from horizon metadata, maps it onto the dynamically-shaped
// plan sheet, and rewrites the whole data region on every save or resize.
package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulobarcelos/runway-compass-sub001/internal/core"
	"github.com/paulobarcelos/runway-compass-sub001/internal/metadata"
	"github.com/paulobarcelos/runway-compass-sub001/internal/sheets"
)

// EventPublisher receives change notifications after successful writes.
// Publishing failures are logged and never fail the operation.
type EventPublisher interface {
	PlanSaved(ctx context.Context, meta core.HorizonMetadata, recordCount int) error
	HorizonChanged(ctx context.Context, meta core.HorizonMetadata) error
}

// Service is the engine's public surface. It assumes a single logical
// writer: every operation reads the entire current state, recomputes the
// entire target state, and overwrites the entire data region. Nothing is
// cached between calls.
type Service struct {
	store  sheets.TabularStore
	meta   *metadata.Store
	sheet  string
	events EventPublisher
	now    func() time.Time
}

// LoadResult pairs the effective horizon with the materialized records.
type LoadResult struct {
	Metadata core.HorizonMetadata
	Records  []core.BudgetPlanRecord
}

// NewService creates the engine over a tabular store and metadata region.
// events may be nil when no broker is configured.
func NewService(store sheets.TabularStore, meta *metadata.Store, planSheet string, events EventPublisher) *Service {
	return &Service{
		store:  store,
		meta:   meta,
		sheet:  planSheet,
		events: events,
		now:    time.Now,
	}
}

// WithClock overrides the clock used for default-metadata computation.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Load rebuilds the snapshot from storage and flattens it into records. An
// uninitialized sheet gets its header written and yields zero records.
func (s *Service) Load(ctx context.Context) (LoadResult, error) {
	m, err := s.loadMatrix(ctx)
	if err != nil {
		return LoadResult{}, err
	}
	return LoadResult{Metadata: m.Meta, Records: m.Records()}, nil
}

// List returns just the materialized records.
func (s *Service) List(ctx context.Context) ([]core.BudgetPlanRecord, error) {
	res, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Save persists an explicit record set under a target horizon. Records dated
// outside the target window are dropped; duplicate (category, month) pairs
// resolve last-write-wins.
func (s *Service) Save(ctx context.Context, records []core.BudgetPlanRecord, target core.HorizonMetadata) error {
	target = target.Normalized()
	if err := target.Validate(); err != nil {
		return err
	}
	months, err := core.BuildMonthSequence(target)
	if err != nil {
		return err
	}
	m := matrixFromRecords(target, months, records)
	if err := s.writeMatrix(ctx, m); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Saved budget plan",
		"start", target.Start.Format("2006-01"),
		"month_count", target.MonthCount,
		"categories", len(m.CategoryOrder),
		"records_in", len(records))
	if s.events != nil {
		if err := s.events.PlanSaved(ctx, target, len(records)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish plan-saved event", "error", err)
		}
	}
	return nil
}

// ExpandHorizon rewrites the plan over a larger window, carrying each
// category's last known value into newly appended months.
func (s *Service) ExpandHorizon(ctx context.Context, target core.HorizonMetadata) (core.HorizonMetadata, error) {
	return s.resize(ctx, target)
}

// ShrinkHorizon rewrites the plan over a smaller window. Months falling
// outside the target are discarded for good; any confirmation UX is the
// caller's job.
func (s *Service) ShrinkHorizon(ctx context.Context, target core.HorizonMetadata) (core.HorizonMetadata, error) {
	return s.resize(ctx, target)
}

func (s *Service) resize(ctx context.Context, target core.HorizonMetadata) (core.HorizonMetadata, error) {
	target = target.Normalized()
	if err := target.Validate(); err != nil {
		return core.HorizonMetadata{}, err
	}
	current, err := s.loadMatrix(ctx)
	if err != nil {
		return core.HorizonMetadata{}, err
	}
	months, err := core.BuildMonthSequence(target)
	if err != nil {
		return core.HorizonMetadata{}, err
	}
	next := rebuild(current, target, months)
	if err := s.writeMatrix(ctx, next); err != nil {
		return core.HorizonMetadata{}, err
	}
	slog.InfoContext(ctx, "Resized budget horizon",
		"from_start", current.Meta.Start.Format("2006-01"),
		"from_count", current.Meta.MonthCount,
		"to_start", target.Start.Format("2006-01"),
		"to_count", target.MonthCount)
	if s.events != nil {
		if err := s.events.HorizonChanged(ctx, target); err != nil {
			slog.ErrorContext(ctx, "Failed to publish horizon-changed event", "error", err)
		}
	}
	return target, nil
}

// loadMatrix reads metadata, derives the month sequence, reads the data
// region and parses it. An uninitialized sheet is repaired in place by
// writing the generated header.
func (s *Service) loadMatrix(ctx context.Context) (*Matrix, error) {
	meta, err := s.meta.Horizon(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("load horizon metadata: %w", err)
	}
	months, err := core.BuildMonthSequence(meta)
	if err != nil {
		return nil, err
	}
	width := 1 + 2*len(months)
	values, err := s.store.ReadRange(ctx, fmt.Sprintf("%s!A:%s", s.sheet, sheets.ColumnLabel(width)))
	if err != nil {
		return nil, fmt.Errorf("read plan sheet: %w", err)
	}
	m, err := parseRows(values, meta, months)
	if errors.Is(err, errUninitializedSheet) {
		slog.InfoContext(ctx, "Plan sheet uninitialized, writing header",
			"sheet", s.sheet, "columns", width)
		empty := NewMatrix(meta, months)
		if werr := s.writeDataRegion(ctx, empty); werr != nil {
			return nil, werr
		}
		return empty, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// writeMatrix persists metadata and then the data region. The two writes are
// independent remote calls with no transactional envelope; a failure in
// between leaves metadata ahead of the data until the operation is re-run,
// which is safe because both writes fully overwrite their targets.
func (s *Service) writeMatrix(ctx context.Context, m *Matrix) error {
	if err := s.meta.SetHorizon(ctx, m.Meta); err != nil {
		return fmt.Errorf("write horizon metadata: %w", err)
	}
	return s.writeDataRegion(ctx, m)
}

func (s *Service) writeDataRegion(ctx context.Context, m *Matrix) error {
	width := 1 + 2*len(m.Months)
	rows := serializeRows(m)
	// Clear up to the widest schema any horizon can produce, not just the
	// current width: a shrink would otherwise leave stale columns behind.
	maxWidth := 1 + 2*core.MaxMonthCount
	if err := s.store.ClearRange(ctx, fmt.Sprintf("%s!A:%s", s.sheet, sheets.ColumnLabel(maxWidth))); err != nil {
		return fmt.Errorf("clear plan sheet: %w", err)
	}
	rng := fmt.Sprintf("%s!%s", s.sheet, BuildRange(width, len(rows)))
	if err := s.store.WriteRange(ctx, rng, rows); err != nil {
		return fmt.Errorf("write plan sheet: %w", err)
	}
	return nil
}
