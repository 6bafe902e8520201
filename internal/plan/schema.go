package plan

import (
	"fmt"

	"github.com/paulobarcelos/runway-compass-sub001/internal/core"
	"github.com/paulobarcelos/runway-compass-sub001/internal/sheets"
)

// categoryColumn is the fixed first header cell; every month contributes an
// amount and a currency column after it.
const categoryColumn = "category_id"

// BuildHeaderRow generates the exact header the plan sheet must carry for a
// month sequence: 1 + 2*len(months) columns in chronological order.
func BuildHeaderRow(months []core.MonthDescriptor) []string {
	header := make([]string, 0, 1+2*len(months))
	header = append(header, categoryColumn)
	for _, m := range months {
		header = append(header, m.Key+"_amount", m.Key+"_currency")
	}
	return header
}

// BuildRange computes the A1 rectangle anchored at A1 that holds the given
// number of columns and rows, each forced to at least 1.
func BuildRange(columnCount, rowCount int) string {
	if columnCount < 1 {
		columnCount = 1
	}
	if rowCount < 1 {
		rowCount = 1
	}
	return fmt.Sprintf("A1:%s%d", sheets.ColumnLabel(columnCount), rowCount)
}
