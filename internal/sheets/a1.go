package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnLabel converts a 1-based column index into spreadsheet letters
// (1 -> A, 26 -> Z, 27 -> AA). Indexes below 1 are treated as 1.
func ColumnLabel(n int) string {
	if n < 1 {
		n = 1
	}
	var buf []byte
	for n > 0 {
		n--
		buf = append([]byte{byte('A' + n%26)}, buf...)
		n /= 26
	}
	return string(buf)
}

// ColumnIndex is the inverse of ColumnLabel ("AA" -> 27).
func ColumnIndex(label string) (int, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return 0, fmt.Errorf("empty column label")
	}
	n := 0
	for _, r := range label {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column label %q", label)
		}
		n = n*26 + int(r-'A') + 1
	}
	return n, nil
}

// Range is a parsed A1 reference. Rows are 1-based; EndRow == 0 means the
// range is unbounded ("A:B" style column ranges).
type Range struct {
	Sheet    string
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

// ParseRange parses "Sheet!A1:B3", "Sheet!A:B" and "Sheet!A1" references.
func ParseRange(rng string) (Range, error) {
	sheet := ""
	ref := rng
	if i := strings.LastIndex(rng, "!"); i >= 0 {
		sheet = strings.Trim(rng[:i], "'")
		ref = rng[i+1:]
	}
	first, second := ref, ref
	if i := strings.Index(ref, ":"); i >= 0 {
		first, second = ref[:i], ref[i+1:]
	}
	sc, sr, err := parseCell(first)
	if err != nil {
		return Range{}, fmt.Errorf("parse range %q: %w", rng, err)
	}
	ec, er, err := parseCell(second)
	if err != nil {
		return Range{}, fmt.Errorf("parse range %q: %w", rng, err)
	}
	if ec < sc || (er != 0 && sr != 0 && er < sr) {
		return Range{}, fmt.Errorf("parse range %q: end before start", rng)
	}
	if sr == 0 {
		sr = 1
	}
	return Range{Sheet: sheet, StartCol: sc, StartRow: sr, EndCol: ec, EndRow: er}, nil
}

// parseCell splits "G12" into column 7, row 12. A bare column ("G") yields
// row 0, meaning unbounded.
func parseCell(cell string) (col, row int, err error) {
	cell = strings.TrimSpace(cell)
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		i++
	}
	if i == 0 {
		return 0, 0, fmt.Errorf("invalid cell %q", cell)
	}
	col, err = ColumnIndex(cell[:i])
	if err != nil {
		return 0, 0, err
	}
	if i == len(cell) {
		return col, 0, nil
	}
	row, err = strconv.Atoi(cell[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid cell %q", cell)
	}
	return col, row, nil
}
