package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Sternrassler/pokeapi-explorer/pkg/catalog"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeLoader returns a page whose single item records the requested query.
// Loads for pages listed in block wait until their context is cancelled.
type fakeLoader struct {
	mu      sync.Mutex
	block   map[int]bool
	started chan int
	err     error
	calls   int
}

func (f *fakeLoader) LoadListing(ctx context.Context, page int, search string, pageSize int) (*catalog.ListingPage, error) {
	f.mu.Lock()
	f.calls++
	blocked := f.block[page]
	err := f.err
	f.mu.Unlock()

	if f.started != nil {
		f.started <- page
	}

	if blocked {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	return &catalog.ListingPage{
		TotalCount: 100,
		Items:      []catalog.ListingItem{{DisplayName: search, SequentialID: (page-1)*pageSize + 1}},
		PageIndex:  page,
	}, nil
}

func TestListView_InitialState(t *testing.T) {
	v := NewListView(&fakeLoader{}, 20)

	s := v.Snapshot()
	if s.Status != StatusIdle {
		t.Errorf("Status = %v, want idle", s.Status)
	}
	if s.Query != (Query{Page: 1}) {
		t.Errorf("Query = %+v, want page 1", s.Query)
	}
}

func TestListView_LoadTransitions(t *testing.T) {
	loader := &fakeLoader{}
	v := NewListView(loader, 20)
	ctx := context.Background()

	s, err := v.GoToPage(ctx, 3)
	if err != nil {
		t.Fatalf("GoToPage() error = %v", err)
	}
	if s.Status != StatusLoaded || s.Page.PageIndex != 3 || s.Page.Items[0].SequentialID != 41 {
		t.Errorf("after GoToPage(3): %+v", s)
	}

	s, _ = v.SubmitSearch(ctx, "pikachu")
	if s.Query != (Query{Page: 1, Search: "pikachu"}) {
		t.Errorf("after SubmitSearch: Query = %+v, want page reset", s.Query)
	}

	s, _ = v.GoToPage(ctx, 2)
	if s.Query != (Query{Page: 2, Search: "pikachu"}) {
		t.Errorf("after GoToPage(2): Query = %+v, want search kept", s.Query)
	}

	s, _ = v.ClearSearch(ctx)
	if s.Query != (Query{Page: 1}) {
		t.Errorf("after ClearSearch: Query = %+v", s.Query)
	}
	if s.Generation != 4 {
		t.Errorf("Generation = %d, want 4", s.Generation)
	}
}

func TestListView_Errored(t *testing.T) {
	boom := errors.New("upstream down")
	v := NewListView(&fakeLoader{err: boom}, 20)

	s, err := v.GoToPage(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("GoToPage() error = %v, want %v", err, boom)
	}
	if s.Status != StatusErrored || !errors.Is(s.Err, boom) || s.Page != nil {
		t.Errorf("snapshot = %+v, want errored without page", s)
	}
}

func TestListView_LastRequestWins(t *testing.T) {
	loader := &fakeLoader{
		block:   map[int]bool{1: true},
		started: make(chan int, 2),
	}
	v := NewListView(loader, 20)
	ctx := context.Background()

	firstErr := make(chan error, 1)
	go func() {
		_, err := v.GoToPage(ctx, 1)
		firstErr <- err
	}()

	// Wait until the first load is in flight.
	if p := <-loader.started; p != 1 {
		t.Fatalf("first load started page %d, want 1", p)
	}
	if s := v.Snapshot(); s.Status != StatusLoading {
		t.Errorf("Status during load = %v, want loading", s.Status)
	}

	s, err := v.GoToPage(ctx, 2)
	if err != nil {
		t.Fatalf("second GoToPage() error = %v", err)
	}
	<-loader.started

	select {
	case err := <-firstErr:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("first load error = %v, want ErrSuperseded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("superseded load was not cancelled")
	}

	final := v.Snapshot()
	if final.Status != StatusLoaded || final.Page.PageIndex != 2 {
		t.Errorf("final state = %+v, want page 2 loaded", final)
	}
	if s.Generation != final.Generation {
		t.Errorf("Generation = %d, want %d", final.Generation, s.Generation)
	}
}

func TestListView_CloseCancelsInFlight(t *testing.T) {
	loader := &fakeLoader{
		block:   map[int]bool{5: true},
		started: make(chan int, 1),
	}
	v := NewListView(loader, 20)

	done := make(chan error, 1)
	go func() {
		_, err := v.GoToPage(context.Background(), 5)
		done <- err
	}()

	<-loader.started
	v.Close()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("load error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not cancel the load")
	}

	if s := v.Snapshot(); s.Status != StatusErrored {
		t.Errorf("Status = %v, want errored", s.Status)
	}
}

func TestStatus_String(t *testing.T) {
	tests := map[Status]string{
		StatusIdle:    "idle",
		StatusLoading: "loading",
		StatusLoaded:  "loaded",
		StatusErrored: "errored",
		Status(42):    "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
