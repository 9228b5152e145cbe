package pagination

// PlainWindowLimit is the largest page count rendered without ellipsis markers.
const PlainWindowLimit = 5

// Entry is one control in a page window: either a page number or an ellipsis marker.
type Entry struct {
	// Page is the 1-based page number (0 for ellipsis markers)
	Page int

	// Ellipsis marks a gap between page numbers
	Ellipsis bool

	// Active is true for the current page
	Active bool
}

// Window is the ordered set of page controls to render.
type Window []Entry

// ComputeWindow maps (current, total) to the page controls shown for navigation.
//
// Examples (total = 10):
//
//	current 1  -> 1 2 3 4 … 10
//	current 5  -> 1 … 4 5 6 … 10
//	current 10 -> 1 … 7 8 9 10
//
// A current page outside [1, total] is clamped first. Fewer than two pages
// yields an empty window.
func ComputeWindow(current, total int) Window {
	if total <= 1 {
		return Window{}
	}
	current = clamp(current, 1, total)

	var pages []int
	switch {
	case total <= PlainWindowLimit:
		pages = make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
	case current <= 3:
		pages = []int{1, 2, 3, 4, 0, total}
	case current >= total-2:
		pages = []int{1, 0, total - 3, total - 2, total - 1, total}
	default:
		pages = []int{1, 0, current - 1, current, current + 1, 0, total}
	}

	window := make(Window, len(pages))
	for i, p := range pages {
		if p == 0 {
			window[i] = Entry{Ellipsis: true}
			continue
		}
		window[i] = Entry{Page: p, Active: p == current}
	}
	return window
}

// Pages returns the page numbers in the window, skipping ellipsis markers.
func (w Window) Pages() []int {
	pages := make([]int, 0, len(w))
	for _, e := range w {
		if !e.Ellipsis {
			pages = append(pages, e.Page)
		}
	}
	return pages
}

// HasEllipsis reports whether the window was truncated.
func (w Window) HasEllipsis() bool {
	for _, e := range w {
		if e.Ellipsis {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
