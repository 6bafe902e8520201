package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/paulobarcelos/runway-compass-sub001/internal/sheets"
)

// Store is an in-memory tabular store that understands A1 ranges. It backs
// tests and local experimentation with the same port surface as the Google
// adapter.
type Store struct {
	mu    sync.Mutex
	grids map[string][][]string
}

var _ sheets.TabularStore = (*Store)(nil)

func New() *Store {
	return &Store{grids: make(map[string][][]string)}
}

// Seed replaces the full contents of a sheet tab. Test helper.
func (s *Store) Seed(sheet string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grid := make([][]string, len(rows))
	for i, row := range rows {
		grid[i] = append([]string(nil), row...)
	}
	s.grids[sheet] = grid
}

// Rows returns a copy of a sheet's grid for inspection in tests.
func (s *Store) Rows(sheet string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	grid := s.grids[sheet]
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// ReadRange returns the populated cells inside the range. Like the Sheets
// API it omits trailing empty cells per row and trailing empty rows.
func (s *Store) ReadRange(_ context.Context, rng string) ([][]any, error) {
	r, err := sheets.ParseRange(rng)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	grid := s.grids[r.Sheet]
	endRow := r.EndRow
	if endRow == 0 || endRow > len(grid) {
		endRow = len(grid)
	}
	var out [][]any
	for i := r.StartRow; i <= endRow; i++ {
		row := grid[i-1]
		var cells []any
		for c := r.StartCol; c <= r.EndCol; c++ {
			v := ""
			if c-1 < len(row) {
				v = row[c-1]
			}
			cells = append(cells, any(v))
		}
		// Trim trailing blanks the way the remote API does.
		for len(cells) > 0 {
			last, _ := cells[len(cells)-1].(string)
			if strings.TrimSpace(last) != "" {
				break
			}
			cells = cells[:len(cells)-1]
		}
		out = append(out, cells)
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (s *Store) WriteRange(_ context.Context, rng string, values [][]any) error {
	r, err := sheets.ParseRange(rng)
	if err != nil {
		return err
	}
	if r.EndRow != 0 && len(values) > r.EndRow-r.StartRow+1 {
		return fmt.Errorf("write %s: %d rows exceed range", rng, len(values))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	grid := s.grids[r.Sheet]
	for i, row := range values {
		if len(row) > r.EndCol-r.StartCol+1 {
			return fmt.Errorf("write %s: row %d has %d cells, range holds %d", rng, i, len(row), r.EndCol-r.StartCol+1)
		}
		rowIdx := r.StartRow + i - 1
		for rowIdx >= len(grid) {
			grid = append(grid, nil)
		}
		for j, cell := range row {
			colIdx := r.StartCol + j - 1
			for colIdx >= len(grid[rowIdx]) {
				grid[rowIdx] = append(grid[rowIdx], "")
			}
			grid[rowIdx][colIdx] = fmt.Sprint(cell)
		}
	}
	s.grids[r.Sheet] = grid
	return nil
}

func (s *Store) ClearRange(_ context.Context, rng string) error {
	r, err := sheets.ParseRange(rng)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	grid := s.grids[r.Sheet]
	endRow := r.EndRow
	if endRow == 0 || endRow > len(grid) {
		endRow = len(grid)
	}
	for i := r.StartRow; i <= endRow; i++ {
		row := grid[i-1]
		for c := r.StartCol; c <= r.EndCol && c-1 < len(row); c++ {
			row[c-1] = ""
		}
	}
	return nil
}
