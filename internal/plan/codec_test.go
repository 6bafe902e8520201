package plan

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/paulobarcelos/runway-compass-sub001/internal/core"
)

func testMonths(t *testing.T, year, month, count int) (core.HorizonMetadata, []core.MonthDescriptor) {
	t.Helper()
	meta := core.HorizonMetadata{Start: core.NewDate(year, month, 1), MonthCount: count}
	months, err := core.BuildMonthSequence(meta)
	if err != nil {
		t.Fatalf("build month sequence: %v", err)
	}
	return meta, months
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func TestSerializeParseRoundTrip(t *testing.T) {
	meta, months := testMonths(t, 2025, 1, 3)
	m := NewMatrix(meta, months)
	m.Put("rent", "2025-01", core.CategoryMonthEntry{Amount: mustDecimal(t, "1200.50"), Currency: "EUR"})
	m.Put("rent", "2025-02", core.CategoryMonthEntry{Amount: mustDecimal(t, "1200.50"), Currency: "EUR"})
	m.Put("groceries", "2025-01", core.CategoryMonthEntry{Amount: mustDecimal(t, "300"), Currency: "USD"})
	// 2025-03 left unset on purpose; serializer substitutes zero/empty.

	rows := serializeRows(m)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if len(rows[1]) != 7 {
		t.Fatalf("expected 7 cells per row, got %d", len(rows[1]))
	}

	parsed, err := parseRows(rows, meta, months)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed.CategoryOrder) != 2 || parsed.CategoryOrder[0] != "rent" || parsed.CategoryOrder[1] != "groceries" {
		t.Fatalf("unexpected category order: %v", parsed.CategoryOrder)
	}
	for cat, byMonth := range m.Categories {
		for key, want := range byMonth {
			got, ok := parsed.Entry(cat, key)
			if !ok {
				t.Fatalf("missing entry %s/%s after round trip", cat, key)
			}
			if !got.Amount.Equal(want.Amount) || got.Currency != want.Currency {
				t.Fatalf("entry %s/%s: expected %v %s, got %v %s", cat, key, want.Amount, want.Currency, got.Amount, got.Currency)
			}
		}
	}
	// The unset month came back as an explicit zero entry.
	e, ok := parsed.Entry("groceries", "2025-03")
	if !ok || !e.Amount.IsZero() || e.Currency != "" {
		t.Fatalf("expected zero entry for groceries/2025-03, got %v ok=%v", e, ok)
	}
}

func TestParseSkipsBlankCategoryRows(t *testing.T) {
	meta, months := testMonths(t, 2025, 1, 1)
	rows := [][]any{
		{"category_id", "2025-01_amount", "2025-01_currency"},
		{"", "999", "EUR"},
		{"rent", "100", "eur"},
	}
	m, err := parseRows(rows, meta, months)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(m.CategoryOrder) != 1 || m.CategoryOrder[0] != "rent" {
		t.Fatalf("expected only rent, got %v", m.CategoryOrder)
	}
	e, _ := m.Entry("rent", "2025-01")
	if e.Currency != "EUR" {
		t.Fatalf("currency not upper-cased: %q", e.Currency)
	}
}

func TestParsePadsShortRows(t *testing.T) {
	meta, months := testMonths(t, 2025, 1, 2)
	rows := [][]any{
		{"category_id", "2025-01_amount", "2025-01_currency", "2025-02_amount", "2025-02_currency"},
		{"rent", "100"}, // missing currency and second month entirely
	}
	m, err := parseRows(rows, meta, months)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e, ok := m.Entry("rent", "2025-02")
	if !ok || !e.Amount.IsZero() || e.Currency != "" {
		t.Fatalf("expected padded zero entry, got %v ok=%v", e, ok)
	}
}

func TestParseRejectsNonNumericAmount(t *testing.T) {
	meta, months := testMonths(t, 2025, 1, 2)
	rows := [][]any{
		{"category_id", "2025-01_amount", "2025-01_currency", "2025-02_amount", "2025-02_currency"},
		{"rent", "100", "EUR", "not-a-number", ""},
	}
	_, err := parseRows(rows, meta, months)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.CategoryID != "rent" || perr.MonthKey != "2025-02" || perr.Row != 2 {
		t.Fatalf("error does not name the offending cell: %+v", perr)
	}
}

func TestParseAcceptsDecimalComma(t *testing.T) {
	meta, months := testMonths(t, 2025, 1, 1)
	rows := [][]any{
		{"category_id", "2025-01_amount", "2025-01_currency"},
		{"rent", "1200,50", "EUR"},
	}
	m, err := parseRows(rows, meta, months)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e, _ := m.Entry("rent", "2025-01")
	if !e.Amount.Equal(mustDecimal(t, "1200.50")) {
		t.Fatalf("expected 1200.50, got %v", e.Amount)
	}
}

func TestParseRejectsMismatchedHeaderOnPopulatedSheet(t *testing.T) {
	meta, months := testMonths(t, 2025, 1, 1)
	rows := [][]any{
		{"category_id", "2024-12_amount", "2024-12_currency"},
		{"rent", "100", "EUR"},
	}
	_, err := parseRows(rows, meta, months)
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestParseTreatsNearEmptySheetAsUninitialized(t *testing.T) {
	meta, months := testMonths(t, 2025, 1, 1)
	cases := [][][]any{
		{},                   // nothing at all
		{{}},                 // one empty row
		{{"Budget"}},         // lone stray cell
		{{"", "", "Budget"}}, // one non-blank cell among blanks
	}
	for i, rows := range cases {
		_, err := parseRows(rows, meta, months)
		if !errors.Is(err, errUninitializedSheet) {
			t.Fatalf("case %d: expected uninitialized sentinel, got %v", i, err)
		}
	}
}
