package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/pokeapi-explorer/internal/testutil"
	"github.com/Sternrassler/pokeapi-explorer/pkg/catalog"
	"github.com/Sternrassler/pokeapi-explorer/pkg/client"
)

type testEnv struct {
	mock   *testutil.MockPokeAPI
	server *httptest.Server
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()

	mock := testutil.NewMockPokeAPI()
	t.Cleanup(mock.Close)

	cfg := client.DefaultConfig("web-test/1.0")
	cfg.BaseURL = mock.BaseURL()
	c, err := client.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	srv, err := NewServer(DefaultConfig(), catalog.NewService(c, catalog.DefaultConfig()), nil)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{mock: mock, server: ts}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, *goquery.Document) {
	t.Helper()

	resp, err := http.Get(e.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return resp, doc
}

func rowCells(doc *goquery.Document, table string, row int) []string {
	var cells []string
	doc.Find(`table[data-table="` + table + `"] tbody tr`).Eq(row).Find("td").Each(func(_ int, s *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(s.Text()))
	})
	return cells
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(DefaultConfig(), nil, nil)
	assert.EqualError(t, err, "catalog is required")

	cfg := DefaultConfig()
	cfg.PageSize = 0
	_, err = NewServer(cfg, catalog.NewService(stubFetcher{}, catalog.DefaultConfig()), nil)
	assert.EqualError(t, err, "page size must be > 0 (got 0)")

	cfg = DefaultConfig()
	cfg.TriggerPageSize = -1
	_, err = NewServer(cfg, catalog.NewService(stubFetcher{}, catalog.DefaultConfig()), nil)
	assert.EqualError(t, err, "trigger page size must be > 0 (got -1)")
}

type stubFetcher struct{}

func (stubFetcher) GetJSON(context.Context, string, url.Values, any) error { return nil }

func TestListing_FirstPage(t *testing.T) {
	env := setupServer(t)

	resp, doc := env.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	assert.Equal(t, 20, doc.Find(`table[data-table="listing"] tbody tr`).Length())
	assert.Equal(t, []string{"#001", "Bulbasaur", "View Details"}, rowCells(doc, "listing", 0))
	assert.Equal(t, "Showing 1 to 20 of 151 Pokémon", strings.TrimSpace(doc.Find("[data-summary]").Text()))

	var pages []string
	doc.Find("[data-page]").Each(func(_ int, s *goquery.Selection) { pages = append(pages, s.Text()) })
	assert.Equal(t, []string{"1", "2", "3", "4", "8"}, pages)

	assert.Contains(t, env.mock.Requests(), "/api/v2/pokemon?limit=20&offset=0")
}

func TestListing_SecondPage(t *testing.T) {
	env := setupServer(t)

	resp, doc := env.get(t, "/?page=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, []string{"#021", "Spearow", "View Details"}, rowCells(doc, "listing", 0))
	assert.Equal(t, "2", doc.Find(`[aria-current="page"]`).Text())
	assert.Equal(t, "/", doc.Find(`a[rel="prev"]`).AttrOr("href", ""))
	assert.Contains(t, env.mock.Requests(), "/api/v2/pokemon?limit=20&offset=20")
}

func TestListing_InvalidPageFallsBackToFirst(t *testing.T) {
	env := setupServer(t)

	resp, doc := env.get(t, "/?page=abc")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "#001", rowCells(doc, "listing", 0)[0])
}

func TestListing_PagePastEndRedirectsToLast(t *testing.T) {
	env := setupServer(t)

	noFollow := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	tests := []struct {
		name     string
		path     string
		location string
	}{
		{"plain", "/?page=99", "/?page=8"},
		{"keeps sort", "/?page=66&sort=name&dir=desc", "/?dir=desc&page=8&sort=name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := noFollow.Get(env.server.URL + tt.path)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}

	resp, doc := env.get(t, "/?page=99")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "#141", rowCells(doc, "listing", 0)[0])
	assert.Equal(t, "Showing 141 to 151 of 151 Pokémon", strings.TrimSpace(doc.Find("[data-summary]").Text()))
}

func TestListing_SortsCurrentPageOnly(t *testing.T) {
	env := setupServer(t)

	_, doc := env.get(t, "/?sort=id&dir=desc")
	assert.Equal(t, "#020", rowCells(doc, "listing", 0)[0])
	assert.Equal(t, "descending", doc.Find(`th[data-column="id"]`).AttrOr("aria-sort", ""))

	// One upstream list request; sorting never refetches.
	assert.Equal(t, 1, env.mock.GetRequestCount())
}

func TestListing_SearchFound(t *testing.T) {
	env := setupServer(t)

	resp, doc := env.get(t, "/?search=Pikachu")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Found: Pikachu", doc.Find(`[data-search-result="found"]`).Text())
	assert.Equal(t, []string{"#025", "Pikachu", "View Details"}, rowCells(doc, "listing", 0))
	assert.Equal(t, 0, doc.Find("[data-summary]").Length())
	assert.Equal(t, []string{"/api/v2/pokemon/pikachu"}, env.mock.Requests())
}

func TestListing_SearchMissIsNotAnError(t *testing.T) {
	env := setupServer(t)

	resp, doc := env.get(t, "/?search=missingno")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, `No results for "missingno"`, doc.Find(`[data-search-result="none"]`).Text())
	assert.Equal(t, 0, doc.Find("[data-error]").Length())
	assert.Equal(t, 0, doc.Find("tbody tr").Length())
}

func TestListing_UpstreamFailure(t *testing.T) {
	env := setupServer(t)
	env.mock.SetResponse("/pokemon", testutil.NewServerErrorResponse())

	resp, doc := env.get(t, "/")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	assert.Equal(t, listingErrorMessage, doc.Find("[data-error]").Text())
	assert.Equal(t, 0, doc.Find("table").Length())
}

func TestListing_SearchServerErrorIsNotAMiss(t *testing.T) {
	env := setupServer(t)
	env.mock.SetResponse("/pokemon/pikachu", testutil.NewServerErrorResponse())

	resp, doc := env.get(t, "/?search=pikachu")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, 0, doc.Find("[data-search-result]").Length())
	assert.Equal(t, listingErrorMessage, doc.Find("[data-error]").Text())
}

func TestDetail_DetailsTab(t *testing.T) {
	env := setupServer(t)

	resp, doc := env.get(t, "/pokemon/pikachu")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	basics := doc.Find(`[data-card="basics"]`)
	assert.Equal(t, "#025 Pikachu", basics.Find("h3").Text())
	assert.Contains(t, basics.Find("img").AttrOr("src", ""), "official-artwork/25.png")
	assert.Contains(t, basics.Text(), "0.4 m")
	assert.Contains(t, basics.Text(), "6.0 kg")
	assert.Contains(t, doc.Find(`[data-ability="lightning-rod"]`).Text(), "(Hidden)")
	assert.Equal(t, 6, doc.Find("[data-stat]").Length())
}

func TestDetail_EvolutionTab(t *testing.T) {
	env := setupServer(t)

	resp, doc := env.get(t, "/pokemon/pikachu?tab=evolution")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 10, doc.Find(`table[data-table="evolution"] tbody tr`).Length())
	assert.Equal(t, []string{"1", "Level up", "1"}, rowCells(doc, "evolution", 0))
	assert.Equal(t, "Showing 1 to 10 of 13 triggers", strings.TrimSpace(doc.Find("[data-summary]").Text()))
}

func TestDetail_EvolutionSecondPage(t *testing.T) {
	env := setupServer(t)

	_, doc := env.get(t, "/pokemon/pikachu?tab=evolution&tpage=2")

	assert.Equal(t, 3, doc.Find(`table[data-table="evolution"] tbody tr`).Length())
	assert.Equal(t, "11", rowCells(doc, "evolution", 0)[0])
	assert.Contains(t, env.mock.Requests(), "/api/v2/evolution-trigger?limit=10&offset=10")
}

func TestDetail_NotFound(t *testing.T) {
	env := setupServer(t)

	resp, doc := env.get(t, "/pokemon/missingno")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", doc.Find("h2").Text())
	assert.Contains(t, doc.Find("[data-error]").Text(), `"missingno"`)
}

func TestDetail_UpstreamFailure(t *testing.T) {
	env := setupServer(t)
	env.mock.SetResponse("/pokemon/pikachu", testutil.NewServerErrorResponse())

	resp, doc := env.get(t, "/pokemon/pikachu")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, detailErrorMessage, doc.Find("[data-error]").Text())
}

func TestDetail_TriggerFailureOnlyAffectsEvolutionTab(t *testing.T) {
	env := setupServer(t)
	env.mock.SetResponse("/evolution-trigger", testutil.NewServerErrorResponse())

	resp, doc := env.get(t, "/pokemon/pikachu")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, doc.Find("[data-error]").Length())
	assert.Equal(t, "#025 Pikachu", doc.Find(`[data-card="basics"] h3`).Text())

	resp, doc = env.get(t, "/pokemon/pikachu?tab=evolution")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, doc.Find("[data-error]").Text(), "Evolution triggers could not be loaded")
}

func TestHealthAndReady(t *testing.T) {
	env := setupServer(t)

	for path, want := range map[string]string{"/health": "OK", "/ready": "READY"} {
		resp, err := http.Get(env.server.URL + path)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, want, string(body), path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupServer(t)

	_, _ = env.get(t, "/")

	resp, err := http.Get(env.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "pokedex_http_requests_total")
	assert.Contains(t, string(body), "pokeapi_requests_total")
}

func TestRequestIDHeader(t *testing.T) {
	env := setupServer(t)

	resp, err := http.Get(env.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	env := setupServer(t)

	resp, err := http.Get(env.server.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServe_GracefulShutdown(t *testing.T) {
	srv, err := NewServer(DefaultConfig(), catalog.NewService(stubFetcher{}, catalog.DefaultConfig()), nil)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}
