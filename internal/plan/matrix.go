package plan

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/paulobarcelos/runway-compass-sub001/internal/core"
)

// Matrix is the transient category×month snapshot an operation works on. It
// is rebuilt from the store on every call and never cached across
// operations.
type Matrix struct {
	Meta          core.HorizonMetadata
	Months        []core.MonthDescriptor
	CategoryOrder []string
	Categories    map[string]map[string]core.CategoryMonthEntry
}

func NewMatrix(meta core.HorizonMetadata, months []core.MonthDescriptor) *Matrix {
	return &Matrix{
		Meta:       meta,
		Months:     months,
		Categories: make(map[string]map[string]core.CategoryMonthEntry),
	}
}

// Put stores an entry, registering the category in first-seen order. A later
// Put for the same (category, month) overwrites the earlier one.
func (m *Matrix) Put(categoryID, monthKey string, e core.CategoryMonthEntry) {
	byMonth, ok := m.Categories[categoryID]
	if !ok {
		byMonth = make(map[string]core.CategoryMonthEntry)
		m.Categories[categoryID] = byMonth
		m.CategoryOrder = append(m.CategoryOrder, categoryID)
	}
	byMonth[monthKey] = e
}

// Entry looks up the value for a (category, month) cell.
func (m *Matrix) Entry(categoryID, monthKey string) (core.CategoryMonthEntry, bool) {
	e, ok := m.Categories[categoryID][monthKey]
	return e, ok
}

// categoryUniverse returns the recorded insertion order, falling back to the
// map's keys (sorted, for determinism) when no order was captured.
func (m *Matrix) categoryUniverse() []string {
	if len(m.CategoryOrder) > 0 {
		return m.CategoryOrder
	}
	keys := make([]string, 0, len(m.Categories))
	for k := range m.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Records flattens the matrix into one record per (category, month) cell,
// categories in first-seen order and months chronologically. Missing cells
// materialize as zero entries. RolloverBalance is always zero at this layer;
// the projection subsystem owns the real value.
func (m *Matrix) Records() []core.BudgetPlanRecord {
	out := make([]core.BudgetPlanRecord, 0, len(m.CategoryOrder)*len(m.Months))
	for _, cat := range m.CategoryOrder {
		for _, month := range m.Months {
			e, ok := m.Entry(cat, month.Key)
			if !ok {
				e = core.ZeroEntry()
			}
			out = append(out, core.BudgetPlanRecord{
				RecordID:        core.RecordID(cat, month.Key),
				CategoryID:      cat,
				Month:           month.Month,
				Year:            month.Year,
				Amount:          e.Amount,
				Currency:        e.Currency,
				RolloverBalance: decimal.Zero,
			})
		}
	}
	return out
}

// matrixFromRecords groups an arbitrary record set into a matrix over the
// given month sequence. Records dated outside the sequence are dropped
// (stale edits from before a horizon change). Duplicate (category, month)
// pairs resolve last-write-wins.
func matrixFromRecords(meta core.HorizonMetadata, months []core.MonthDescriptor, records []core.BudgetPlanRecord) *Matrix {
	inHorizon := make(map[string]struct{}, len(months))
	for _, month := range months {
		inHorizon[month.Key] = struct{}{}
	}
	m := NewMatrix(meta, months)
	for _, r := range records {
		cat := strings.TrimSpace(r.CategoryID)
		if cat == "" {
			continue
		}
		key := r.MonthKey()
		if _, ok := inHorizon[key]; !ok {
			continue
		}
		m.Put(cat, key, core.CategoryMonthEntry{
			Amount:   r.Amount,
			Currency: strings.ToUpper(strings.TrimSpace(r.Currency)),
		})
	}
	return m
}
