package pagination

// Offset returns the zero-based item offset of a 1-based page.
//
//   - Page 1, size 20 -> offset 0
//   - Page 2, size 20 -> offset 20
func Offset(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

// TotalPages returns ceil(count/size), or 0 when there are no items.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Pager holds the navigation state of one rendered page.
type Pager struct {
	Current    int
	TotalPages int
	PageSize   int
	TotalCount int
}

// NewPager builds a pager with current clamped into [1, max(1, totalPages)].
func NewPager(current, pageSize, totalCount int) Pager {
	totalPages := TotalPages(totalCount, pageSize)
	return Pager{
		Current:    clamp(current, 1, max(1, totalPages)),
		TotalPages: totalPages,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}

// HasPrevious reports whether a previous page exists.
func (p Pager) HasPrevious() bool {
	return p.Current > 1
}

// HasNext reports whether a next page exists.
func (p Pager) HasNext() bool {
	return p.Current < p.TotalPages
}

// Previous returns the previous page, never below 1.
func (p Pager) Previous() int {
	return max(1, p.Current-1)
}

// Next returns the next page, never past the last page.
func (p Pager) Next() int {
	return min(max(1, p.TotalPages), p.Current+1)
}

// FirstItem is the 1-based position of the first item on the page.
func (p Pager) FirstItem() int {
	if p.TotalCount == 0 {
		return 0
	}
	return Offset(p.Current, p.PageSize) + 1
}

// LastItem is the 1-based position of the last item on the page.
func (p Pager) LastItem() int {
	return min(Offset(p.Current, p.PageSize)+p.PageSize, p.TotalCount)
}

// Window returns the page controls for this pager.
func (p Pager) Window() Window {
	return ComputeWindow(p.Current, p.TotalPages)
}
