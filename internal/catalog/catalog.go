// Package catalog holds the ordered table of collected file records.
//
// Rows are addressed by 0-based index in insertion order. Presentation
// layers sort through View and must map presentation rows back to catalog
// rows before calling RemoveRows.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ivoronin/dupeview/internal/palette"
	"github.com/ivoronin/dupeview/internal/types"
)

// ErrRemovalIndexConflict is returned when RemoveRows receives rows that are
// not unique, strictly descending and in range.
var ErrRemovalIndexConflict = errors.New("removal index conflict")

// Catalog is an ordered list of records plus the color table built for them.
// It is not safe for concurrent use.
type Catalog struct {
	records []types.FileRecord
	colors  *palette.Table
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{colors: palette.New().Table()}
}

// Summary describes the catalog after an Append.
type Summary struct {
	Unique int // Distinct resolved fingerprints
	Total  int // Rows
}

func (s Summary) String() string {
	return fmt.Sprintf("There are %d/%d unique file(s)", s.Unique, s.Total)
}

// Append adds records to the end and recolors the whole catalog in row order,
// so earlier singletons that match a new record end up sharing its color.
func (c *Catalog) Append(records ...types.FileRecord) Summary {
	c.records = append(c.records, records...)
	c.recolor()
	return c.Summary()
}

func (c *Catalog) recolor() {
	assigner := palette.New()
	for i, rec := range c.records {
		c.records[i] = rec.WithColor(assigner.ColorFor(rec.Fingerprint))
	}
	c.colors = assigner.Table()
}

// Summary returns the current unique and total counts.
func (c *Catalog) Summary() Summary {
	return Summary{Unique: c.colors.Len(), Total: len(c.records)}
}

// RemoveRows removes rows given strictly descending. Violations leave the
// catalog untouched and return an error wrapping ErrRemovalIndexConflict.
// Surviving rows keep their relative order and colors.
func (c *Catalog) RemoveRows(rows []int) error {
	for i, row := range rows {
		if row < 0 || row >= len(c.records) {
			return fmt.Errorf("%w: row %d out of range [0,%d)", ErrRemovalIndexConflict, row, len(c.records))
		}
		if i > 0 && row >= rows[i-1] {
			return fmt.Errorf("%w: row %d follows %d", ErrRemovalIndexConflict, row, rows[i-1])
		}
	}
	for _, row := range rows {
		c.records = slices.Delete(c.records, row, row+1)
	}
	return nil
}

// NormalizeRows returns rows de-duplicated and sorted descending,
// ready for RemoveRows.
func NormalizeRows(rows []int) []int {
	out := slices.Clone(rows)
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out
}

// RowCount returns the number of rows.
func (c *Catalog) RowCount() int { return len(c.records) }

// Get returns the record at row.
func (c *Catalog) Get(row int) (types.FileRecord, bool) {
	if row < 0 || row >= len(c.records) {
		return types.FileRecord{}, false
	}
	return c.records[row], true
}

// Records returns a copy of all rows.
func (c *Catalog) Records() []types.FileRecord { return slices.Clone(c.records) }

// Color resolves a record's color ID.
func (c *Catalog) Color(id types.ColorID) (palette.RGB, bool) { return c.colors.Color(id) }

// Unique returns the number of distinct resolved fingerprints seen by the
// last recolor.
func (c *Catalog) Unique() int { return c.colors.Len() }
