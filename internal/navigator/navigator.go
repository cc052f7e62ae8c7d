// Package navigator finds the next group of identical files in a catalog.
//
// A search starts one row past the current anchor and walks forward. The
// first row that has an identical row below it becomes the new anchor and is
// selected together with every matching row below it. Reaching the bottom
// without a match clears the selection; the next search then restarts at
// row 0. Repeated calls therefore visit each group once per pass and never
// loop forever.
package navigator

import (
	"fmt"

	"github.com/ivoronin/dupeview/internal/types"
)

// Source is the read-only view of a catalog the navigator needs.
type Source interface {
	RowCount() int
	Get(row int) (types.FileRecord, bool)
}

// NoAnchor is the Anchor of an empty Result and the "no selection" current row.
const NoAnchor = -1

// Result is the outcome of one Next call.
type Result struct {
	Rows    []int // Anchor first, then matches in ascending order
	Anchor  int
	Found   bool
	Message string
}

// Next returns the first duplicate group anchored at or after current+1.
func Next(src Source, current int) Result {
	count := src.RowCount()
	start := current + 1
	if current < 0 || start >= count {
		start = 0
	}

	// Rows per fingerprint, ascending. Built once so each anchor is a lookup.
	index := make(map[string][]int)
	for row := range count {
		rec, ok := src.Get(row)
		if !ok || !rec.Resolved() {
			continue
		}
		key := string(rec.Fingerprint)
		index[key] = append(index[key], row)
	}

	for anchor := start; anchor < count; anchor++ {
		rec, ok := src.Get(anchor)
		if !ok || !rec.Resolved() {
			continue
		}
		if rows := below(index[string(rec.Fingerprint)], anchor); len(rows) > 0 {
			selected := append([]int{anchor}, rows...)
			return Result{
				Rows:    selected,
				Anchor:  anchor,
				Found:   true,
				Message: fmt.Sprintf("Selected %d identical files", len(selected)),
			}
		}
	}

	return Result{
		Anchor:  NoAnchor,
		Message: fmt.Sprintf("No duplicates found after row %d", start),
	}
}

// below returns the tail of the ascending rows that lies past anchor.
func below(rows []int, anchor int) []int {
	for i, r := range rows {
		if r > anchor {
			return rows[i:]
		}
	}
	return nil
}
