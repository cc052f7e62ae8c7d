package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ivoronin/dupeview/internal/types"
)

// Column identifies a catalog column.
type Column int

const (
	Name Column = iota
	Dir
	Size
	LastModified
	Hash
)

// Columns lists every column in display order.
var Columns = []Column{Name, Dir, Size, LastModified, Hash}

var columnNames = [...]string{"name", "dir", "size", "modified", "hash"}

func (c Column) String() string {
	if c < 0 || int(c) >= len(columnNames) {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnNames[c]
}

// Title returns the header label.
func (c Column) Title() string {
	switch c {
	case Dir:
		return "Directory"
	case LastModified:
		return "Last modified"
	default:
		s := c.String()
		return strings.ToUpper(s[:1]) + s[1:]
	}
}

// ParseColumn maps a column name (case-insensitive) to a Column.
func ParseColumn(name string) (Column, error) {
	i := slices.Index(columnNames[:], strings.ToLower(strings.TrimSpace(name)))
	if i < 0 {
		return 0, fmt.Errorf("unknown column %q (want one of %s)", name, strings.Join(columnNames[:], ", "))
	}
	return Column(i), nil
}

// Compare orders a and b by col. Hash orders unresolved fingerprints first.
func Compare(col Column, a, b types.FileRecord) int {
	switch col {
	case Name:
		return cmp.Compare(a.Name(), b.Name())
	case Dir:
		return cmp.Compare(a.Dir(), b.Dir())
	case Size:
		return cmp.Compare(a.Size, b.Size)
	case LastModified:
		return a.ModTime.Compare(b.ModTime)
	case Hash:
		return strings.Compare(string(a.Fingerprint), string(b.Fingerprint))
	default:
		return 0
	}
}

// Cell renders rec's value for col.
func Cell(col Column, rec types.FileRecord) string {
	switch col {
	case Name:
		return rec.Name()
	case Dir:
		return rec.Dir()
	case Size:
		return humanize.IBytes(rec.Size)
	case LastModified:
		if rec.ModTime.IsZero() {
			return ""
		}
		return rec.ModTime.Local().Format(time.DateTime)
	case Hash:
		return rec.Fingerprint.String()
	default:
		return ""
	}
}

// View returns catalog rows in presentation order for s.
// Ties keep catalog order.
func (c *Catalog) View(s SortState) []int {
	rows := make([]int, len(c.records))
	for i := range rows {
		rows[i] = i
	}
	if !s.Active {
		return rows
	}
	slices.SortStableFunc(rows, func(i, j int) int {
		r := Compare(s.Column, c.records[i], c.records[j])
		if s.Descending {
			return -r
		}
		return r
	})
	return rows
}
