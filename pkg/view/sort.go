package view

import (
	"cmp"
	"net/url"
	"slices"
	"strings"

	"github.com/Sternrassler/pokeapi-explorer/pkg/catalog"
)

// Sort query keys.
const (
	KeySort = "sort"
	KeyDir  = "dir"
)

// Column is a sortable table column.
type Column string

const (
	ColumnID   Column = "id"
	ColumnName Column = "name"
)

// Direction is a sort direction. The zero value means unsorted.
type Direction string

const (
	DirNone Direction = ""
	DirAsc  Direction = "asc"
	DirDesc Direction = "desc"
)

// Sort is the table sort state. It only reorders the rows of the current page.
type Sort struct {
	Column    Column
	Direction Direction
}

// ParseSort reads the sort state from URL values; anything unknown is unsorted.
func ParseSort(values url.Values) Sort {
	col := Column(strings.ToLower(values.Get(KeySort)))
	dir := Direction(strings.ToLower(values.Get(KeyDir)))

	if col != ColumnID && col != ColumnName {
		return Sort{}
	}
	if dir != DirAsc && dir != DirDesc {
		return Sort{}
	}
	return Sort{Column: col, Direction: dir}
}

// Active reports whether a sort is applied.
func (s Sort) Active() bool {
	return s.Direction != DirNone
}

// Toggle returns the state after clicking col's header: the same column
// cycles asc, desc, unsorted; another column starts ascending.
func (s Sort) Toggle(col Column) Sort {
	if s.Column != col || !s.Active() {
		return Sort{Column: col, Direction: DirAsc}
	}
	if s.Direction == DirAsc {
		return Sort{Column: col, Direction: DirDesc}
	}
	return Sort{}
}

// DirectionOf returns the direction shown on col's header.
func (s Sort) DirectionOf(col Column) Direction {
	if s.Column == col {
		return s.Direction
	}
	return DirNone
}

// AddTo writes the sort keys into v, or removes them when unsorted.
func (s Sort) AddTo(v url.Values) url.Values {
	if v == nil {
		v = url.Values{}
	}
	if !s.Active() {
		v.Del(KeySort)
		v.Del(KeyDir)
		return v
	}
	v.Set(KeySort, string(s.Column))
	v.Set(KeyDir, string(s.Direction))
	return v
}

// URL returns path carrying both the listing query and the sort state.
func (s Sort) URL(path string, q Query) string {
	return withQuery(path, s.AddTo(q.Values()))
}

// SortRows returns a sorted copy of rows; rows is returned unchanged when
// no sort is active.
func SortRows[T any](s Sort, rows []T, id func(T) int, name func(T) string) []T {
	if !s.Active() {
		return rows
	}

	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b T) int {
		var c int
		if s.Column == ColumnID {
			c = cmp.Compare(id(a), id(b))
		} else {
			c = strings.Compare(name(a), name(b))
		}
		if s.Direction == DirDesc {
			return -c
		}
		return c
	})
	return out
}

// Apply sorts listing rows.
func (s Sort) Apply(items []catalog.ListingItem) []catalog.ListingItem {
	return SortRows(s, items,
		func(i catalog.ListingItem) int { return i.SequentialID },
		func(i catalog.ListingItem) string { return i.DisplayName })
}

// ApplyTriggers sorts evolution trigger rows.
func (s Sort) ApplyTriggers(items []catalog.EvolutionTrigger) []catalog.EvolutionTrigger {
	return SortRows(s, items,
		func(t catalog.EvolutionTrigger) int { return t.ID },
		func(t catalog.EvolutionTrigger) string { return t.DisplayName })
}
