package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MinMonthCount and MaxMonthCount bound the planning horizon.
	MinMonthCount = 1
	MaxMonthCount = 120
)

type (
	Date struct {
		time.Time
	}

	// HorizonMetadata describes the planning window: the first tracked month
	// and how many consecutive months follow it.
	HorizonMetadata struct {
		Start      Date
		MonthCount int
	}

	// MonthDescriptor is one month of the horizon, derived from
	// HorizonMetadata and never persisted on its own.
	MonthDescriptor struct {
		Key   string // "YYYY-MM"
		Year  int
		Month int // 1-12
		Index int // 0-based position in the horizon
	}

	// CategoryMonthEntry is the planned budget for one category in one month.
	CategoryMonthEntry struct {
		Amount   decimal.Decimal
		Currency string // ISO code or empty
	}

	// BudgetPlanRecord is the flattened per-cell form handed to callers.
	// RecordID is deterministic for a (category, month) pair so repeated
	// loads of unchanged data produce byte-identical ids.
	BudgetPlanRecord struct {
		RecordID        string
		CategoryID      string
		Month           int
		Year            int
		Amount          decimal.Decimal
		Currency        string
		RolloverBalance decimal.Decimal
	}
)

var (
	ErrInvalidStart      = errors.New("invalid horizon start")
	ErrInvalidMonthCount = errors.New("invalid horizon month count")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as an int.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// MonthKey formats a (year, month) pair as "YYYY-MM".
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// Normalized returns a copy with Start moved to the first of its month.
// The day component of the start date carries no meaning.
func (m HorizonMetadata) Normalized() HorizonMetadata {
	if m.Start.IsZero() {
		return m
	}
	m.Start = NewDate(m.Start.Year(), m.Start.Month(), 1)
	return m
}

// Validate checks caller-supplied metadata. Unlike the defaults applied when
// reading the metadata region, caller input is never silently corrected.
func (m HorizonMetadata) Validate() error {
	if m.Start.IsZero() {
		return ErrInvalidStart
	}
	if m.MonthCount < MinMonthCount || m.MonthCount > MaxMonthCount {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidMonthCount, m.MonthCount, MinMonthCount, MaxMonthCount)
	}
	return nil
}

// BuildMonthSequence derives the ordered month list for the horizon. The
// result has exactly MonthCount entries in consecutive calendar order with
// year rollover handled.
func BuildMonthSequence(meta HorizonMetadata) ([]MonthDescriptor, error) {
	meta = meta.Normalized()
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	year, month := meta.Start.Year(), meta.Start.Month()
	out := make([]MonthDescriptor, 0, meta.MonthCount)
	for i := 0; i < meta.MonthCount; i++ {
		out = append(out, MonthDescriptor{
			Key:   MonthKey(year, month),
			Year:  year,
			Month: month,
			Index: i,
		})
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return out, nil
}

// RecordID derives the stable identifier for a (category, month) cell.
func RecordID(categoryID, monthKey string) string {
	return fmt.Sprintf("budget_%s_%s", categoryID, monthKey)
}

// ZeroEntry is the default for months a category has no value for.
func ZeroEntry() CategoryMonthEntry {
	return CategoryMonthEntry{Amount: decimal.Zero}
}

// MonthKey returns the "YYYY-MM" key of the record's month.
func (r BudgetPlanRecord) MonthKey() string {
	return MonthKey(r.Year, r.Month)
}
