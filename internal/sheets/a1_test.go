package sheets

import "testing"

func TestColumnLabel(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{28, "AB"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
		{0, "A"}, // clamped
	}
	for _, tc := range cases {
		if got := ColumnLabel(tc.n); got != tc.want {
			t.Fatalf("ColumnLabel(%d): expected %s, got %s", tc.n, tc.want, got)
		}
	}
}

func TestColumnIndexRoundTrip(t *testing.T) {
	for _, n := range []int{1, 5, 26, 27, 100, 241, 702, 703} {
		label := ColumnLabel(n)
		got, err := ColumnIndex(label)
		if err != nil {
			t.Fatalf("ColumnIndex(%s): %v", label, err)
		}
		if got != n {
			t.Fatalf("round trip %d -> %s -> %d", n, label, got)
		}
	}
	if _, err := ColumnIndex(""); err == nil {
		t.Fatalf("expected error for empty label")
	}
	if _, err := ColumnIndex("A1"); err == nil {
		t.Fatalf("expected error for non-letter label")
	}
}

func TestParseRange(t *testing.T) {
	cases := []struct {
		in   string
		want Range
	}{
		{"Plan!A1:G3", Range{Sheet: "Plan", StartCol: 1, StartRow: 1, EndCol: 7, EndRow: 3}},
		{"Plan!A:B", Range{Sheet: "Plan", StartCol: 1, StartRow: 1, EndCol: 2, EndRow: 0}},
		{"Plan!C5", Range{Sheet: "Plan", StartCol: 3, StartRow: 5, EndCol: 3, EndRow: 5}},
		{"B2:AA9", Range{Sheet: "", StartCol: 2, StartRow: 2, EndCol: 27, EndRow: 9}},
	}
	for _, tc := range cases {
		got, err := ParseRange(tc.in)
		if err != nil {
			t.Fatalf("ParseRange(%s): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRange(%s): expected %+v, got %+v", tc.in, tc.want, got)
		}
	}
	for _, bad := range []string{"Plan!", "Plan!1:3", "Plan!G3:A1"} {
		if _, err := ParseRange(bad); err == nil {
			t.Fatalf("ParseRange(%s): expected error", bad)
		}
	}
}
