package listing

import (
	"slices"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Policy decides what a repeated click on the same column does.
type Policy int

const (
	// Flip alternates asc and desc forever.
	Flip Policy = iota
	// Cycle goes asc, desc, then clears the sort.
	Cycle
)

type SortState struct {
	Column    string    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

func (s SortState) Active() bool {
	return s.Column != ""
}

// Toggle returns the state after the user clicks column.
func (s SortState) Toggle(column string, p Policy) SortState {
	if s.Column != column {
		return SortState{Column: column, Direction: Asc}
	}
	if s.Direction == Asc {
		return SortState{Column: column, Direction: Desc}
	}
	if p == Cycle {
		return SortState{}
	}
	return SortState{Column: column, Direction: Asc}
}

// ParseSort reads query parameters; unknown directions default to asc.
func ParseSort(column, direction string) SortState {
	if column == "" {
		return SortState{}
	}
	d := Asc
	if Direction(direction) == Desc {
		d = Desc
	}
	return SortState{Column: column, Direction: d}
}

// Sort orders records by the state's column. The sort is stable, values that
// cannot be compared keep their relative order, and missing values go last in
// either direction.
func Sort[T Record](records []T, s SortState) []T {
	out := slices.Clone(records)
	if !s.Active() {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		av, bv := a.Field(s.Column), b.Field(s.Column)
		am, bm := missing(av), missing(bv)
		switch {
		case am && bm:
			return 0
		case am:
			return 1
		case bm:
			return -1
		}
		c, ok := compare(av, bv)
		if !ok {
			return 0
		}
		if s.Direction == Desc {
			return -c
		}
		return c
	})
	return out
}
