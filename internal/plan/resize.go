package plan

import (
	"github.com/paulobarcelos/runway-compass-sub001/internal/core"
)

// rebuild maps an existing matrix onto a target month sequence.
//
// Each category walks the target months chronologically with a last-known
// cursor: an existing entry for the exact month key is copied verbatim and
// becomes the cursor; a month the category never had takes the cursor value
// (carry-forward); months before any known value are zero-filled. Months
// outside the target window are silently discarded, which makes shrinking
// the horizon destructive and non-reversible.
func rebuild(current *Matrix, targetMeta core.HorizonMetadata, targetMonths []core.MonthDescriptor) *Matrix {
	next := NewMatrix(targetMeta, targetMonths)
	for _, cat := range current.categoryUniverse() {
		var cursor core.CategoryMonthEntry
		hasCursor := false
		for _, month := range targetMonths {
			switch e, ok := current.Entry(cat, month.Key); {
			case ok:
				next.Put(cat, month.Key, e)
				cursor, hasCursor = e, true
			case hasCursor:
				next.Put(cat, month.Key, cursor)
			default:
				next.Put(cat, month.Key, core.ZeroEntry())
			}
		}
	}
	return next
}
