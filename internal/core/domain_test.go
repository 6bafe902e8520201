package core

import (
	"testing"
)

func TestBuildMonthSequenceRollsOverYears(t *testing.T) {
	meta := HorizonMetadata{Start: NewDate(2024, 11, 1), MonthCount: 4}
	months, err := BuildMonthSequence(meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"2024-11", "2024-12", "2025-01", "2025-02"}
	if len(months) != len(want) {
		t.Fatalf("expected %d months, got %d", len(want), len(months))
	}
	for i, m := range months {
		if m.Key != want[i] {
			t.Fatalf("month %d: expected key %s, got %s", i, want[i], m.Key)
		}
		if m.Index != i {
			t.Fatalf("month %d: expected index %d, got %d", i, i, m.Index)
		}
	}
	if months[2].Year != 2025 || months[2].Month != 1 {
		t.Fatalf("expected 2025-01 descriptor, got %+v", months[2])
	}
}

func TestBuildMonthSequenceIsDeterministic(t *testing.T) {
	meta := HorizonMetadata{Start: NewDate(2025, 3, 15), MonthCount: 24}
	a, err := BuildMonthSequence(meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := BuildMonthSequence(meta)
	if len(a) != 24 || len(b) != 24 {
		t.Fatalf("expected 24 months, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("month %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
	// Strictly chronological.
	for i := 1; i < len(a); i++ {
		if a[i].Key <= a[i-1].Key {
			t.Fatalf("months out of order at %d: %s then %s", i, a[i-1].Key, a[i].Key)
		}
	}
}

func TestBuildMonthSequenceValidation(t *testing.T) {
	cases := []struct {
		name string
		meta HorizonMetadata
	}{
		{"zero start", HorizonMetadata{MonthCount: 12}},
		{"zero count", HorizonMetadata{Start: NewDate(2025, 1, 1)}},
		{"negative count", HorizonMetadata{Start: NewDate(2025, 1, 1), MonthCount: -3}},
		{"count too large", HorizonMetadata{Start: NewDate(2025, 1, 1), MonthCount: 121}},
	}
	for _, tc := range cases {
		if _, err := BuildMonthSequence(tc.meta); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestHorizonMetadataNormalized(t *testing.T) {
	meta := HorizonMetadata{Start: NewDate(2025, 6, 17), MonthCount: 3}
	n := meta.Normalized()
	if n.Start.Day() != 1 || n.Start.Month() != 6 || n.Start.Year() != 2025 {
		t.Fatalf("expected 2025-06-01, got %v", n.Start)
	}
	if meta.Start.Day() != 17 {
		t.Fatalf("Normalized must not mutate the receiver")
	}
}

func TestMonthKeyPadsMonth(t *testing.T) {
	if got := MonthKey(2025, 3); got != "2025-03" {
		t.Fatalf("expected 2025-03, got %s", got)
	}
	if got := MonthKey(2025, 12); got != "2025-12" {
		t.Fatalf("expected 2025-12, got %s", got)
	}
}

func TestRecordID(t *testing.T) {
	if got := RecordID("groceries", "2025-03"); got != "budget_groceries_2025-03" {
		t.Fatalf("unexpected record id %q", got)
	}
	// Same cell always yields the same id.
	if RecordID("groceries", "2025-03") != RecordID("groceries", "2025-03") {
		t.Fatalf("record id not stable")
	}
}
