package catalog

import (
	"fmt"
	"strings"
)

// SortState is the header sort indicator.
//
// Clicking a column sorts ascending, clicking it again sorts descending and a
// third consecutive click on the same column turns sorting off.
type SortState struct {
	Active     bool
	Column     Column
	Descending bool
}

// Click returns the state after the header of col is clicked.
func (s SortState) Click(col Column) SortState {
	switch {
	case !s.Active || s.Column != col:
		return SortState{Active: true, Column: col}
	case !s.Descending:
		return SortState{Active: true, Column: col, Descending: true}
	default:
		return SortState{}
	}
}

// String encodes the state as "<column>:asc", "<column>:desc" or "none".
func (s SortState) String() string {
	if !s.Active {
		return "none"
	}
	order := "asc"
	if s.Descending {
		order = "desc"
	}
	return s.Column.String() + ":" + order
}

// ParseSortState decodes the String form. A bare column name sorts ascending.
func ParseSortState(v string) (SortState, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "none" {
		return SortState{}, nil
	}
	name, order, _ := strings.Cut(v, ":")
	col, err := ParseColumn(name)
	if err != nil {
		return SortState{}, err
	}
	switch order {
	case "", "asc":
		return SortState{Active: true, Column: col}, nil
	case "desc":
		return SortState{Active: true, Column: col, Descending: true}, nil
	default:
		return SortState{}, fmt.Errorf("unknown sort order %q", order)
	}
}
