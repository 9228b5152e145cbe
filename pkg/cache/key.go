package cache

import (
	"net/http"
	"net/url"
	"strings"
)

// KeyPrefix namespaces every cache key in Redis.
const KeyPrefix = "pokeapi:cache:"

// Key identifies one cached upstream GET.
type Key struct {
	// Path is the request path, e.g. "/api/v2/pokemon/pikachu"
	Path string

	// Query holds the query parameters, e.g. limit=20&offset=40
	Query url.Values
}

// KeyFor returns the key of req.
func KeyFor(req *http.Request) Key {
	return Key{Path: req.URL.Path, Query: req.URL.Query()}
}

// String renders the Redis key. url.Values.Encode sorts by parameter name,
// so ?offset=40&limit=20 and ?limit=20&offset=40 share an entry:
//
//	pokeapi:cache:api/v2/pokemon?limit=20&offset=40
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(KeyPrefix)
	b.WriteString(strings.Trim(k.Path, "/"))
	if q := k.Query.Encode(); q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	return b.String()
}
