package catalog

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Sternrassler/pokeapi-explorer/internal/testutil"
	"github.com/Sternrassler/pokeapi-explorer/pkg/client"
	"github.com/google/go-cmp/cmp"
)

func newTestService(t *testing.T) (*Service, *testutil.MockPokeAPI) {
	t.Helper()

	mock := testutil.NewMockPokeAPI()
	t.Cleanup(mock.Close)

	cfg := client.DefaultConfig("catalog-test/1.0")
	cfg.BaseURL = mock.BaseURL()
	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })

	return NewService(c, DefaultConfig()), mock
}

func TestLoadListing_SecondPage(t *testing.T) {
	svc, mock := newTestService(t)

	got, err := svc.LoadListing(context.Background(), 2, "", 20)
	if err != nil {
		t.Fatalf("LoadListing() error = %v", err)
	}

	if reqs := mock.Requests(); len(reqs) != 1 || reqs[0] != "/api/v2/pokemon?limit=20&offset=20" {
		t.Errorf("requests = %v, want offset=20 limit=20", reqs)
	}
	if got.TotalCount != testutil.DefaultCount {
		t.Errorf("TotalCount = %d, want %d", got.TotalCount, testutil.DefaultCount)
	}
	if got.PageIndex != 2 {
		t.Errorf("PageIndex = %d, want 2", got.PageIndex)
	}
	if len(got.Items) != 20 {
		t.Fatalf("len(Items) = %d, want 20", len(got.Items))
	}
	for i, item := range got.Items {
		if item.SequentialID != 21+i {
			t.Errorf("Items[%d].SequentialID = %d, want %d", i, item.SequentialID, 21+i)
		}
	}
	if got.Items[4].DisplayName != "pikachu" || got.Items[4].DetailRef != "pikachu" {
		t.Errorf("Items[4] = %+v, want pikachu", got.Items[4])
	}
}

func TestLoadListing_LastPartialPage(t *testing.T) {
	svc, mock := newTestService(t)
	mock.SetCount(45)

	got, err := svc.LoadListing(context.Background(), 3, "", 20)
	if err != nil {
		t.Fatalf("LoadListing() error = %v", err)
	}
	if len(got.Items) != 5 {
		t.Fatalf("len(Items) = %d, want 5", len(got.Items))
	}
	if got.Items[0].SequentialID != 41 || got.Items[4].SequentialID != 45 {
		t.Errorf("ids = %d..%d, want 41..45", got.Items[0].SequentialID, got.Items[4].SequentialID)
	}
}

func TestLoadListing_SearchFound(t *testing.T) {
	svc, mock := newTestService(t)

	got, err := svc.LoadListing(context.Background(), 7, "  Pikachu ", 20)
	if err != nil {
		t.Fatalf("LoadListing() error = %v", err)
	}

	want := &ListingPage{
		TotalCount: 1,
		Items:      []ListingItem{{DisplayName: "pikachu", SequentialID: 25, DetailRef: "pikachu"}},
		PageIndex:  1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadListing() mismatch (-want +got):\n%s", diff)
	}
	if reqs := mock.Requests(); len(reqs) != 1 || reqs[0] != "/api/v2/pokemon/pikachu" {
		t.Errorf("requests = %v, want [/api/v2/pokemon/pikachu]", reqs)
	}
}

func TestLoadListing_SearchNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.LoadListing(context.Background(), 1, "missingno", 20)
	if err != nil {
		t.Fatalf("LoadListing() error = %v, want nil", err)
	}
	if got.TotalCount != 0 || len(got.Items) != 0 {
		t.Errorf("LoadListing() = %+v, want empty page", got)
	}
	if got.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestLoadListing_SearchDotSegments(t *testing.T) {
	svc, mock := newTestService(t)
	// A path-cleaning upstream would resolve /pokemon/. to the collection.
	mock.SetHandler("/pokemon/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":151,"results":[{"name":"bulbasaur","url":""}]}`))
	})

	for _, search := range []string{".", "..", " . "} {
		t.Run(search, func(t *testing.T) {
			got, err := svc.LoadListing(context.Background(), 1, search, 20)
			if err != nil {
				t.Fatalf("LoadListing(%q) error = %v, want nil", search, err)
			}
			if got.TotalCount != 0 || len(got.Items) != 0 {
				t.Errorf("LoadListing(%q) = %+v, want empty page", search, got)
			}
		})
	}

	if n := mock.GetRequestCount(); n != 0 {
		t.Errorf("upstream requests = %d, want 0", n)
	}
}

func TestLoadListing_SearchServerError(t *testing.T) {
	svc, mock := newTestService(t)
	mock.SetResponse("/pokemon/pikachu", testutil.NewServerErrorResponse())

	_, err := svc.LoadListing(context.Background(), 1, "pikachu", 20)

	var upstream *client.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("LoadListing() error = %v, want *client.UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", upstream.StatusCode)
	}
}

func TestLoadListing_ListServerError(t *testing.T) {
	svc, mock := newTestService(t)
	mock.SetResponse("/pokemon", testutil.NewServerErrorResponse())

	_, err := svc.LoadListing(context.Background(), 1, "", 20)
	if !client.IsStatus(err, http.StatusInternalServerError) {
		t.Errorf("LoadListing() error = %v, want upstream 500", err)
	}
}

func TestLoadListing_InvalidArguments(t *testing.T) {
	svc, mock := newTestService(t)

	tests := []struct {
		name     string
		page     int
		pageSize int
	}{
		{"page zero", 0, 20},
		{"negative page", -3, 20},
		{"zero page size", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.LoadListing(context.Background(), tt.page, "", tt.pageSize)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("LoadListing() error = %v, want ErrInvalidArgument", err)
			}
		})
	}

	if n := mock.GetRequestCount(); n != 0 {
		t.Errorf("upstream requests = %d, want 0", n)
	}
}

func TestLoadDetail(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.LoadDetail(context.Background(), "PIKACHU")
	if err != nil {
		t.Fatalf("LoadDetail() error = %v", err)
	}

	if got.ID != 25 || got.Name != "pikachu" {
		t.Errorf("detail = %d %q, want 25 pikachu", got.ID, got.Name)
	}
	if got.HeightMeters() != 0.4 {
		t.Errorf("HeightMeters() = %v, want 0.4", got.HeightMeters())
	}
	if got.WeightKilograms() != 6 {
		t.Errorf("WeightKilograms() = %v, want 6", got.WeightKilograms())
	}
	if diff := cmp.Diff([]string{"electric"}, got.Types); diff != "" {
		t.Errorf("Types mismatch (-want +got):\n%s", diff)
	}
	wantAbilities := []Ability{{Name: "static"}, {Name: "lightning-rod", Hidden: true}}
	if diff := cmp.Diff(wantAbilities, got.Abilities); diff != "" {
		t.Errorf("Abilities mismatch (-want +got):\n%s", diff)
	}
	if len(got.Stats) != 6 || got.Stats[5] != (Stat{Name: "speed", Base: 90}) {
		t.Errorf("Stats = %+v", got.Stats)
	}
	if got.ArtworkURL() != got.Sprites.Artwork || got.Sprites.Artwork == "" {
		t.Errorf("ArtworkURL() = %q, want official artwork", got.ArtworkURL())
	}
}

func TestLoadDetail_Errors(t *testing.T) {
	svc, mock := newTestService(t)

	if _, err := svc.LoadDetail(context.Background(), "  "); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("LoadDetail(empty) error = %v, want ErrInvalidArgument", err)
	}
	for _, ref := range []string{".", ".."} {
		if _, err := svc.LoadDetail(context.Background(), ref); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("LoadDetail(%q) error = %v, want ErrInvalidArgument", ref, err)
		}
	}
	if mock.GetRequestCount() != 0 {
		t.Error("invalid refs should not reach the upstream")
	}

	_, err := svc.LoadDetail(context.Background(), "missingno")
	if !client.IsStatus(err, http.StatusNotFound) {
		t.Errorf("LoadDetail(missing) error = %v, want upstream 404", err)
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		t.Error("LoadDetail must not turn 404 into NotFoundError")
	}
}

func TestLoadEvolutionTriggers(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.LoadEvolutionTriggers(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("LoadEvolutionTriggers() error = %v", err)
	}

	if got.TotalCount != len(testutil.EvolutionTriggers) {
		t.Errorf("TotalCount = %d, want %d", got.TotalCount, len(testutil.EvolutionTriggers))
	}
	if len(got.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(got.Items))
	}

	for i, item := range got.Items {
		name := testutil.EvolutionTriggers[10+i]
		want := EvolutionTrigger{
			ID:           11 + i,
			Name:         name,
			DisplayName:  testutil.EnglishTriggerName(name),
			SpeciesCount: testutil.SpeciesCount(name),
		}
		if diff := cmp.Diff(want, item); diff != "" {
			t.Errorf("Items[%d] mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestLoadEvolutionTriggers_DetailFailureFailsPage(t *testing.T) {
	svc, mock := newTestService(t)
	mock.SetResponse("/evolution-trigger/trade", testutil.NewServerErrorResponse())

	_, err := svc.LoadEvolutionTriggers(context.Background(), 1, 10)
	if !client.IsStatus(err, http.StatusInternalServerError) {
		t.Errorf("LoadEvolutionTriggers() error = %v, want upstream 500", err)
	}
}

func TestLoadDetailView(t *testing.T) {
	svc, _ := newTestService(t)

	view, err := svc.LoadDetailView(context.Background(), "pikachu", 1, 10)
	if err != nil {
		t.Fatalf("LoadDetailView() error = %v", err)
	}
	if view.Detail == nil || view.Detail.Name != "pikachu" {
		t.Errorf("Detail = %+v, want pikachu", view.Detail)
	}
	if view.Triggers == nil || len(view.Triggers.Items) != 10 {
		t.Errorf("Triggers = %+v, want 10 items", view.Triggers)
	}
	if view.TriggersErr != nil {
		t.Errorf("TriggersErr = %v, want nil", view.TriggersErr)
	}
}

func TestLoadDetailView_TriggerFailureIsolated(t *testing.T) {
	svc, mock := newTestService(t)
	mock.SetResponse("/evolution-trigger", testutil.NewServerErrorResponse())

	view, err := svc.LoadDetailView(context.Background(), "pikachu", 1, 10)
	if err != nil {
		t.Fatalf("LoadDetailView() error = %v, want nil", err)
	}
	if view.Detail == nil {
		t.Fatal("Detail should load when only triggers fail")
	}
	if view.Triggers != nil || view.TriggersErr == nil {
		t.Errorf("Triggers = %+v, TriggersErr = %v, want nil and error", view.Triggers, view.TriggersErr)
	}
}

func TestLoadDetailView_DetailFailure(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.LoadDetailView(context.Background(), "missingno", 1, 10)
	if !client.IsStatus(err, http.StatusNotFound) {
		t.Errorf("LoadDetailView() error = %v, want upstream 404", err)
	}
}

func TestNewService_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewService should panic with nil fetcher")
		}
	}()
	NewService(nil, DefaultConfig())
}
