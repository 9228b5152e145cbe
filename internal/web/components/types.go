// Package components renders the catalog HTML.
//
// Page markup lives in .templ files; the *_templ.go files next to them are
// generated with `templ generate` and checked in. This file holds the data
// types the templates render and the helpers they call.
//
//	w.Header().Set("Content-Type", "text/html; charset=utf-8")
//	if err := components.ListingPage(data).Render(r.Context(), w); err != nil {
//		...
//	}
package components

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sternrassler/pokeapi-explorer/pkg/catalog"
	"github.com/Sternrassler/pokeapi-explorer/pkg/pagination"
	"github.com/Sternrassler/pokeapi-explorer/pkg/view"
)

// AppName is shown in the page header and title.
const AppName = "Pokémon Explorer"

// ListingPath is the route of the listing page.
const ListingPath = "/"

// Detail page query keys and tabs.
const (
	KeyTab         = "tab"
	KeyTriggerPage = "tpage"

	TabDetails   = "details"
	TabEvolution = "evolution"
)

// =============================================================================
// Page data
// =============================================================================

// ListingData is everything the listing page renders.
type ListingData struct {
	Query    view.Query
	Sort     view.Sort
	PageSize int
	// Page is nil when the load failed.
	Page *catalog.ListingPage
	// Err is the message shown instead of the table.
	Err string
}

// DetailData is everything the detail page renders.
type DetailData struct {
	Ref             string
	View            *catalog.DetailView
	Tab             string
	TriggerPageSize int
	// Sort orders the evolution trigger rows.
	Sort view.Sort
}

// PaginationData holds what the pagination bar needs.
type PaginationData struct {
	Pager pagination.Pager
	// PageURL builds the link for a page number.
	PageURL func(page int) string
	// Label names the items, e.g. "Pokémon".
	Label string
}

// =============================================================================
// URLs
// =============================================================================

// DetailURL links to the detail page of ref.
func DetailURL(ref string) string {
	return "/pokemon/" + url.PathEscape(ref)
}

// DetailTabURL links to a tab of the detail page. Page 1 and an inactive
// sort are omitted.
func DetailTabURL(ref, tab string, triggerPage int, s view.Sort) string {
	v := url.Values{}
	if tab != TabDetails {
		v.Set(KeyTab, tab)
	}
	if triggerPage > 1 {
		v.Set(KeyTriggerPage, strconv.Itoa(triggerPage))
	}
	s.AddTo(v)
	if enc := v.Encode(); enc != "" {
		return DetailURL(ref) + "?" + enc
	}
	return DetailURL(ref)
}

// ParseTab returns the requested tab, defaulting to the details tab.
func ParseTab(v string) string {
	if strings.EqualFold(v, TabEvolution) {
		return TabEvolution
	}
	return TabDetails
}

// =============================================================================
// Template helpers
// =============================================================================

func pageTitle(title string) string {
	if title == "" {
		return AppName
	}
	return title + " | " + AppName
}

func listingTitle(q view.Query) string {
	if q.Search != "" {
		return "Search: " + q.Search
	}
	return "Pokémon Database"
}

func detailTitle(data DetailData) string {
	if data.View != nil && data.View.Detail != nil {
		return DisplayName(data.View.Detail.Name)
	}
	return DisplayName(data.Ref)
}

func listingSortURL(q view.Query) func(view.Sort) string {
	return func(s view.Sort) string { return s.URL(ListingPath, q) }
}

func listingPagination(data ListingData) PaginationData {
	return PaginationData{
		Pager: pagination.NewPager(data.Page.PageIndex, data.PageSize, data.Page.TotalCount),
		PageURL: func(p int) string {
			return data.Sort.URL(ListingPath, data.Query.WithPage(p))
		},
		Label: "Pokémon",
	}
}

// triggerPage is the evolution page the tab links keep, 1 when the
// triggers failed to load.
func triggerPage(v *catalog.DetailView) int {
	if v.Triggers != nil {
		return v.Triggers.PageIndex
	}
	return 1
}

func triggerSortURL(data DetailData) func(view.Sort) string {
	page := triggerPage(data.View)
	return func(s view.Sort) string { return DetailTabURL(data.Ref, TabEvolution, page, s) }
}

func triggerPagination(data DetailData) PaginationData {
	tp := data.View.Triggers
	return PaginationData{
		Pager: pagination.NewPager(tp.PageIndex, data.TriggerPageSize, tp.TotalCount),
		PageURL: func(p int) string {
			return DetailTabURL(data.Ref, TabEvolution, p, data.Sort)
		},
		Label: "triggers",
	}
}

func tabClass(active bool) string {
	if active {
		return Class(buttonClass, buttonActive, "w-full")
	}
	return Class(buttonClass, "w-full")
}

// sortAria is the aria-sort value of a column header.
func sortAria(d view.Direction) string {
	switch d {
	case view.DirAsc:
		return "ascending"
	case view.DirDesc:
		return "descending"
	default:
		return "none"
	}
}

func sortArrow(d view.Direction) string {
	switch d {
	case view.DirAsc:
		return " ▲"
	case view.DirDesc:
		return " ▼"
	default:
		return ""
	}
}

// statWidth sizes a stat bar with an arbitrary-value width class, which the
// Tailwind runtime compiles on the page.
func statWidth(s catalog.Stat) string {
	return fmt.Sprintf("w-[%.1f%%]", s.Percent())
}
