// Package view holds the presentation state of the catalog: the URL query
// state, the list-view load state machine and the table sort state.
package view

import (
	"net/url"
	"strconv"
	"strings"
)

// Query keys.
const (
	KeyPage   = "page"
	KeySearch = "search"
)

// Query is the listing state carried in the URL.
type Query struct {
	Page   int
	Search string
}

// ParseQuery reads the listing state from URL values.
// A missing, malformed or non-positive page parses as 1.
func ParseQuery(values url.Values) Query {
	q := Query{Page: 1, Search: strings.TrimSpace(values.Get(KeySearch))}
	if p, err := strconv.Atoi(values.Get(KeyPage)); err == nil && p > 1 {
		q.Page = p
	}
	return q
}

// Values encodes the state, omitting page 1 and an empty search.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 1 {
		v.Set(KeyPage, strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set(KeySearch, q.Search)
	}
	return v
}

// Encode returns the URL-encoded query string without a leading "?".
func (q Query) Encode() string {
	return q.Values().Encode()
}

// URL returns path with the encoded state appended.
func (q Query) URL(path string) string {
	return withQuery(path, q.Values())
}

// WithPage moves to page p, keeping the search.
func (q Query) WithPage(p int) Query {
	if p < 1 {
		p = 1
	}
	q.Page = p
	return q
}

// WithSearch submits a search, which always starts at page 1.
func (q Query) WithSearch(search string) Query {
	return Query{Page: 1, Search: strings.TrimSpace(search)}
}

// ClearSearch drops both the search and the page.
func (q Query) ClearSearch() Query {
	return Query{Page: 1}
}

func withQuery(path string, v url.Values) string {
	if enc := v.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}
