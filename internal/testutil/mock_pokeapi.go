// Package testutil provides testing utilities for the PokeAPI client.
package testutil

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// APIPrefix is the path under which the mock serves the v2 API.
const APIPrefix = "/api/v2"

// DefaultCount is the number of Pokémon the mock serves unless SetCount is called.
const DefaultCount = 151

// Roster holds the real names of the first entries; later ones are generated.
var Roster = []string{
	"bulbasaur", "ivysaur", "venusaur", "charmander", "charmeleon", "charizard",
	"squirtle", "wartortle", "blastoise", "caterpie", "metapod", "butterfree",
	"weedle", "kakuna", "beedrill", "pidgey", "pidgeotto", "pidgeot",
	"rattata", "raticate", "spearow", "fearow", "ekans", "arbok",
	"pikachu", "raichu",
}

// EvolutionTriggers lists the trigger names served, in upstream order.
var EvolutionTriggers = []string{
	"level-up", "trade", "use-item", "shed", "spin", "tower-of-darkness",
	"tower-of-waters", "three-critical-hits", "take-damage", "other",
	"agile-style-move", "strong-style-move", "recoil-damage",
}

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockPokeAPI is a configurable mock PokeAPI server for testing.
// Without overrides it serves a deterministic roster, per-name details and
// the evolution-trigger collection, with ETag and Cache-Control headers.
type MockPokeAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	count    int

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
	requests          []string
}

// NewMockPokeAPI creates a new mock PokeAPI server.
func NewMockPokeAPI() *MockPokeAPI {
	mock := &MockPokeAPI{
		handlers: make(map[string]http.HandlerFunc),
		count:    DefaultCount,
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.requests = append(mock.requests, r.URL.RequestURI())

		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server root URL.
func (m *MockPokeAPI) URL() string {
	return m.server.URL
}

// BaseURL returns the API root to configure clients with.
func (m *MockPokeAPI) BaseURL() string {
	return m.server.URL + APIPrefix
}

// Close shuts down the mock server.
func (m *MockPokeAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockPokeAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.LastRequestHeader = nil
	m.requests = nil
}

// SetCount sets the collection size reported by the list endpoint.
func (m *MockPokeAPI) SetCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count = n
}

// SetHandler sets a custom handler for a path relative to the API root,
// e.g. "/pokemon/pikachu".
func (m *MockPokeAPI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[APIPrefix+path] = handler
}

// SetResponse configures a fixed response for a path relative to the API root.
func (m *MockPokeAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockPokeAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockPokeAPI) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// Requests returns the request URIs received, in arrival order.
func (m *MockPokeAPI) Requests() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.requests...)
}

// NameAt returns the name served at 1-based position id.
func NameAt(id int) string {
	if id >= 1 && id <= len(Roster) {
		return Roster[id-1]
	}
	return fmt.Sprintf("pokemon-%d", id)
}

// idOf resolves a name or numeric id to a 1-based position.
func idOf(ref string, count int) (int, bool) {
	if n, err := strconv.Atoi(ref); err == nil {
		return n, n >= 1 && n <= count
	}
	for i, name := range Roster {
		if name == ref {
			return i + 1, i+1 <= count
		}
	}
	if v, ok := strings.CutPrefix(ref, "pokemon-"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > len(Roster) && n <= count {
			return n, true
		}
	}
	return 0, false
}

// defaultHandler provides PokeAPI-like responses.
func (m *MockPokeAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, APIPrefix), "/")
	resource, ref, _ := strings.Cut(path, "/")

	m.mu.RLock()
	count := m.count
	m.mu.RUnlock()

	var body any
	switch {
	case resource == "pokemon" && ref == "":
		body = listBody(r, count, "pokemon", NameAt)
	case resource == "pokemon":
		id, ok := idOf(ref, count)
		if !ok {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		body = detailBody(id)
	case resource == "evolution-trigger" && ref == "":
		body = listBody(r, len(EvolutionTriggers), "evolution-trigger", func(id int) string {
			return EvolutionTriggers[id-1]
		})
	case resource == "evolution-trigger":
		idx := indexOf(EvolutionTriggers, ref)
		if idx < 0 {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		body = triggerBody(idx + 1)
	default:
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	data, err := json.Marshal(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	etag := etagOf(data)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400, s-maxage=86400")
	w.Header().Set("ETag", etag)

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func listBody(r *http.Request, count int, resource string, nameAt func(int) string) map[string]any {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	results := []map[string]string{}
	for id := offset + 1; id <= offset+limit && id <= count; id++ {
		results = append(results, map[string]string{
			"name": nameAt(id),
			"url":  fmt.Sprintf("https://pokeapi.co/api/v2/%s/%d/", resource, id),
		})
	}

	var next, previous any
	if offset+limit < count {
		next = fmt.Sprintf("https://pokeapi.co/api/v2/%s?offset=%d&limit=%d", resource, offset+limit, limit)
	}
	if offset > 0 {
		previous = fmt.Sprintf("https://pokeapi.co/api/v2/%s?offset=%d&limit=%d", resource, max(0, offset-limit), limit)
	}

	return map[string]any{
		"count":    count,
		"next":     next,
		"previous": previous,
		"results":  results,
	}
}

func detailBody(id int) map[string]any {
	name := NameAt(id)
	sprite := fmt.Sprintf("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png", id)

	if name == "pikachu" {
		return map[string]any{
			"id":              25,
			"name":            "pikachu",
			"height":          4,
			"weight":          60,
			"base_experience": 112,
			"types":           []any{typeSlot(1, "electric")},
			"abilities":       []any{abilitySlot("static", false), abilitySlot("lightning-rod", true)},
			"stats": []any{
				statEntry("hp", 35), statEntry("attack", 55), statEntry("defense", 40),
				statEntry("special-attack", 50), statEntry("special-defense", 50), statEntry("speed", 90),
			},
			"sprites": spritesOf(id, sprite),
		}
	}

	return map[string]any{
		"id":              id,
		"name":            name,
		"height":          10,
		"weight":          100,
		"base_experience": 64,
		"types":           []any{typeSlot(1, "normal")},
		"abilities":       []any{abilitySlot("run-away", false)},
		"stats": []any{
			statEntry("hp", 50), statEntry("attack", 50), statEntry("defense", 50),
			statEntry("special-attack", 50), statEntry("special-defense", 50), statEntry("speed", 50),
		},
		"sprites": spritesOf(id, sprite),
	}
}

func triggerBody(id int) map[string]any {
	name := EvolutionTriggers[id-1]

	species := []map[string]string{}
	for i := 0; i < SpeciesCount(name); i++ {
		species = append(species, map[string]string{
			"name": NameAt(i + 1),
			"url":  fmt.Sprintf("https://pokeapi.co/api/v2/pokemon-species/%d/", i+1),
		})
	}

	return map[string]any{
		"id":   id,
		"name": name,
		"names": []any{
			map[string]any{"name": strings.ToUpper(name), "language": map[string]string{"name": "de"}},
			map[string]any{"name": EnglishTriggerName(name), "language": map[string]string{"name": "en"}},
		},
		"pokemon_species": species,
	}
}

// EnglishTriggerName is the English display name the mock serves for a trigger.
func EnglishTriggerName(name string) string {
	words := strings.Split(name, "-")
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}

// SpeciesCount is the number of species the mock lists for a trigger.
func SpeciesCount(name string) int {
	return len(name) % 7
}

func typeSlot(slot int, name string) map[string]any {
	return map[string]any{"slot": slot, "type": map[string]string{"name": name}}
}

func abilitySlot(name string, hidden bool) map[string]any {
	return map[string]any{"is_hidden": hidden, "ability": map[string]string{"name": name}}
}

func statEntry(name string, base int) map[string]any {
	return map[string]any{"base_stat": base, "effort": 0, "stat": map[string]string{"name": name}}
}

func spritesOf(id int, front string) map[string]any {
	return map[string]any{
		"front_default": front,
		"front_shiny":   strings.Replace(front, "/pokemon/", "/pokemon/shiny/", 1),
		"other": map[string]any{
			"official-artwork": map[string]any{
				"front_default": fmt.Sprintf("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png", id),
			},
		},
	}
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

func etagOf(data []byte) string {
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf(`W/"%x"`, h.Sum64())
}

// NewJSONResponse creates a 200 OK response with PokeAPI caching headers.
func NewJSONResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"Content-Type":  "application/json; charset=utf-8",
			"Cache-Control": "public, max-age=86400",
			"ETag":          `"test-etag-123"`,
		},
	}
}

// NewNotFoundResponse creates a 404 Not Found response as PokeAPI sends it.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       "Not Found",
		Headers: map[string]string{
			"Content-Type": "text/plain; charset=utf-8",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"detail": "Request was throttled."}`,
		Headers: map[string]string{
			"Retry-After":  "30",
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewConditionalHandler creates a handler that responds with 304 when the
// request carries the given ETag.
func NewConditionalHandler(etag string, data string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("ETag", etag)

		if r.Header.Get("If-None-Match") == etag {
			w.Header().Set("Cache-Control", "public, max-age=60")
			w.WriteHeader(http.StatusNotModified)
			return
		}

		// Already stale so the next request revalidates.
		w.Header().Set("Cache-Control", "public, max-age=0")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(data))
	}
}
