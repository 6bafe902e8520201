package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/paulobarcelos/runway-compass-sub001/internal/core"
)

// SchemaError reports a populated sheet whose header does not match the
// generated schema for the current horizon. The engine never migrates such
// a sheet automatically.
type SchemaError struct {
	Expected []string
	Got      []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("plan sheet header does not match horizon schema: expected %d columns starting %q, got %v",
		len(e.Expected), e.Expected[0], e.Got)
}

// ParseError reports a cell that should hold a number but does not.
type ParseError struct {
	CategoryID string
	MonthKey   string
	Row        int // 1-based sheet row (header is row 1)
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse amount for category %q month %s (row %d): %v", e.CategoryID, e.MonthKey, e.Row, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// errUninitializedSheet signals that the grid is effectively empty: either
// no rows at all, or a lone near-blank header and no data. The service
// responds by writing a fresh header.
var errUninitializedSheet = errors.New("plan sheet not initialized")

// parseRows interprets a raw grid (header row first) as a matrix under the
// given month sequence. Rows are padded or truncated to the schema width;
// rows with a blank category cell are skipped as deliberate blank lines.
func parseRows(values [][]any, meta core.HorizonMetadata, months []core.MonthDescriptor) (*Matrix, error) {
	expected := BuildHeaderRow(months)
	if len(values) == 0 {
		return nil, errUninitializedSheet
	}
	header := toStrings(values[0])
	if !headerMatches(header, expected) {
		if len(values) == 1 && nonBlankCells(header) <= 1 {
			return nil, errUninitializedSheet
		}
		return nil, &SchemaError{Expected: expected, Got: header}
	}

	m := NewMatrix(meta, months)
	for i, raw := range values[1:] {
		cols := padRow(toStrings(raw), len(expected))
		categoryID := cols[0]
		if categoryID == "" {
			continue
		}
		for j, month := range months {
			amount, err := parseAmount(cols[1+2*j])
			if err != nil {
				return nil, &ParseError{CategoryID: categoryID, MonthKey: month.Key, Row: i + 2, Err: err}
			}
			m.Put(categoryID, month.Key, core.CategoryMonthEntry{
				Amount:   amount,
				Currency: strings.ToUpper(cols[2+2*j]),
			})
		}
	}
	return m, nil
}

// serializeRows emits the header followed by one row per category, each
// exactly schema-width, with zero/empty standing in for missing months.
func serializeRows(m *Matrix) [][]any {
	header := BuildHeaderRow(m.Months)
	rows := make([][]any, 0, 1+len(m.CategoryOrder))
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	rows = append(rows, headerRow)
	for _, cat := range m.CategoryOrder {
		row := make([]any, 0, len(header))
		row = append(row, cat)
		for _, month := range m.Months {
			e, ok := m.Entry(cat, month.Key)
			if !ok {
				e = core.ZeroEntry()
			}
			row = append(row, e.Amount.String(), e.Currency)
		}
		rows = append(rows, row)
	}
	return rows
}

// parseAmount reads a decimal cell. Blank cells count as zero; the decimal
// comma some locales produce is normalized before parsing.
func parseAmount(cell string) (decimal.Decimal, error) {
	if cell == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(cell, ",", "."))
}

func headerMatches(got, expected []string) bool {
	if len(got) != len(expected) {
		return false
	}
	for i := range expected {
		if got[i] != expected[i] {
			return false
		}
	}
	return true
}

func nonBlankCells(row []string) int {
	n := 0
	for _, c := range row {
		if c != "" {
			n++
		}
	}
	return n
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func padRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	if len(row) > width {
		return row[:width]
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
