package main

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/Sternrassler/pokeapi-explorer/internal/testutil"
	"github.com/Sternrassler/pokeapi-explorer/pkg/catalog"
	"github.com/Sternrassler/pokeapi-explorer/pkg/client"
	"github.com/Sternrassler/pokeapi-explorer/pkg/view"
)

func setupEnv(t *testing.T) *testutil.MockPokeAPI {
	t.Helper()

	mock := testutil.NewMockPokeAPI()
	t.Cleanup(mock.Close)

	t.Setenv("POKEAPI_BASE_URL", mock.BaseURL())
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("REDIS_URL", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("TRIGGER_PAGE_SIZE", "")
	return mock
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()
	return out.String(), err
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output does not contain %q:\n%s", w, out)
		}
	}
}

func TestList_FirstPage(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "", "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	assertContains(t, out, "#001", "Bulbasaur", "#020", "Raticate", "Showing 1 to 20 of 151 Pokémon", "[1]", "…", "8")
}

func TestList_Page(t *testing.T) {
	mock := setupEnv(t)

	out, err := execute(t, "", "list", "--page", "2")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	assertContains(t, out, "#021", "Spearow", "Showing 21 to 40 of 151 Pokémon", "[2]")

	if got := mock.Requests(); len(got) != 1 || got[0] != "/api/v2/pokemon?limit=20&offset=20" {
		t.Errorf("upstream requests = %v, want one page request at offset 20", got)
	}
}

func TestList_InvalidPage(t *testing.T) {
	setupEnv(t)

	if _, err := execute(t, "", "list", "--page", "0"); err == nil {
		t.Fatal("list --page 0 error = nil, want error")
	}
}

func TestList_PagePastEnd(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "", "list", "--page", "99")
	if err == nil {
		t.Fatal("list --page 99 error = nil, want error")
	}
	if want := "page 99 is past the last page (8)"; err.Error() != want {
		t.Errorf("list --page 99 error = %q, want %q", err, want)
	}
}

func TestList_Search(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "", "list", "--search", "Pikachu")
	if err != nil {
		t.Fatalf("list --search error = %v", err)
	}
	assertContains(t, out, "Found: Pikachu", "#025")
	if strings.Contains(out, "Showing") {
		t.Errorf("search output should not page:\n%s", out)
	}
}

func TestList_SearchMiss(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "", "list", "--search", "missingno")
	if err != nil {
		t.Fatalf("search miss error = %v, want nil", err)
	}
	assertContains(t, out, `No results for "missingno"`)
}

func TestList_UpstreamFailure(t *testing.T) {
	mock := setupEnv(t)
	mock.SetResponse("/pokemon", testutil.NewServerErrorResponse())

	_, err := execute(t, "", "list")
	if !client.IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("list error = %v, want upstream 500", err)
	}
}

func TestShow_Detail(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "", "show", "pikachu")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	assertContains(t, out, "#025 Pikachu", "0.4 m", "6.0 kg", "112", "Electric", "Static", "Lightning Rod (Hidden)", "Speed", "official-artwork/25.png")
	if strings.Contains(out, "Evolution Triggers") {
		t.Errorf("show without --triggers printed triggers:\n%s", out)
	}
}

func TestShow_Triggers(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "", "show", "pikachu", "--triggers", "--trigger-page", "2")
	if err != nil {
		t.Fatalf("show --triggers error = %v", err)
	}
	assertContains(t, out, "Evolution Triggers", "Agile style move", "Showing 11 to 13 of 13 triggers")
}

func TestShow_NotFound(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "", "show", "missingno")
	if !client.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("show error = %v, want upstream 404", err)
	}
}

func TestShow_RequiresName(t *testing.T) {
	setupEnv(t)

	if _, err := execute(t, "", "show"); err == nil {
		t.Fatal("show without NAME error = nil, want error")
	}
}

func TestInvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("POKEAPI_BASE_URL", "ftp://example.com")

	_, err := execute(t, "", "list")
	if err == nil || !strings.Contains(err.Error(), "POKEAPI_BASE_URL") {
		t.Fatalf("error = %v, want POKEAPI_BASE_URL validation error", err)
	}
}

func TestBrowse_Session(t *testing.T) {
	mock := setupEnv(t)

	out, err := execute(t, "n\n3\np\n/pikachu\nn\nc\nbogus\nq\n", "browse")
	if err != nil {
		t.Fatalf("browse error = %v", err)
	}

	assertContains(t, out,
		"#021",           // n
		"#041",           // 3
		"Found: Pikachu", // /pikachu
		"single page",    // n while searching
		`Unknown command "bogus"`,
	)

	want := []string{
		"/api/v2/pokemon?limit=20&offset=0",
		"/api/v2/pokemon?limit=20&offset=20",
		"/api/v2/pokemon?limit=20&offset=40",
		"/api/v2/pokemon?limit=20&offset=20",
		"/api/v2/pokemon/pikachu",
		"/api/v2/pokemon?limit=20&offset=0",
	}
	got := mock.Requests()
	if len(got) != len(want) {
		t.Fatalf("upstream requests = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBrowse_ClampsPageNumber(t *testing.T) {
	mock := setupEnv(t)

	if _, err := execute(t, "99\nn\nq\n", "browse"); err != nil {
		t.Fatalf("browse error = %v", err)
	}

	got := mock.Requests()
	last := "/api/v2/pokemon?limit=20&offset=140"
	if len(got) != 3 || got[1] != last || got[2] != last {
		t.Errorf("upstream requests = %v, want page 8 twice after the first page", got)
	}
}

func TestBrowse_EndOfInput(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()

	cfg := client.DefaultConfig("browse-test/1.0")
	cfg.BaseURL = mock.BaseURL()
	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	defer c.Close()

	lv := view.NewListView(catalog.NewService(c, catalog.DefaultConfig()), 20)
	defer lv.Close()

	var out bytes.Buffer
	if err := browse(context.Background(), lv, 20, strings.NewReader(""), &out); err != nil {
		t.Fatalf("browse() error = %v", err)
	}
	if lv.Snapshot().Status != view.StatusLoaded {
		t.Errorf("status = %v, want loaded", lv.Snapshot().Status)
	}
}

func TestTableRender(t *testing.T) {
	tbl := &table{headers: []string{"ID", "Name"}}
	tbl.add("#001", "Bulbasaur")
	tbl.add("#025", "Pikachu")

	lines := strings.Split(strings.TrimRight(tbl.render(defaultStyles()), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("rendered %d lines, want 4:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.Contains(lines[2], "Bulbasaur") || !strings.Contains(lines[3], "Pikachu") {
		t.Errorf("rows out of order:\n%s", strings.Join(lines, "\n"))
	}
}

func TestPagerOf(t *testing.T) {
	loaded := view.Snapshot{
		Query: view.Query{Page: 8},
		Page:  &catalog.ListingPage{TotalCount: 151, PageIndex: 8},
	}
	if p := pagerOf(loaded, 20); p.Next() != 8 || p.Previous() != 7 {
		t.Errorf("pagerOf(last page) Next/Previous = %d/%d, want 8/7", p.Next(), p.Previous())
	}

	errored := view.Snapshot{Query: view.Query{Page: 3}}
	if p := pagerOf(errored, 20); p.Next() != 4 || p.Previous() != 2 {
		t.Errorf("pagerOf(errored) Next/Previous = %d/%d, want 4/2", p.Next(), p.Previous())
	}
}
