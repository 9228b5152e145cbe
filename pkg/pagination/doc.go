// Package pagination provides page navigation arithmetic and bounded
// parallel fetching for paginated PokeAPI collections.
//
// PokeAPI pages collections with limit/offset query parameters. This package
// computes the offset for a 1-based page, the page window shown as navigation
// controls, and fetches per-item detail resources in parallel.
//
// Example usage:
//
//	pager := pagination.NewPager(page, 20, listing.TotalCount)
//	for _, e := range pager.Window() {
//		// render e.Page, or an ellipsis when e.Ellipsis is set
//	}
//
//	details, err := pagination.FetchAll(ctx, pagination.DefaultConfig(), names, fetchDetail)
//
// The window keeps at most seven controls: the first and last page are always
// shown once the collection spans more than five pages, and the current page
// is always present and marked active.
package pagination
