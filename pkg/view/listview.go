package view

import (
	"context"
	"errors"
	"sync"

	"github.com/Sternrassler/pokeapi-explorer/pkg/catalog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrSuperseded is returned by a load that was overtaken by a newer one.
// Its result has been discarded.
var ErrSuperseded = errors.New("load superseded by a newer request")

// Status is the list view load state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusErrored
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Loader loads one listing page. *catalog.Service implements it.
type Loader interface {
	LoadListing(ctx context.Context, page int, search string, pageSize int) (*catalog.ListingPage, error)
}

// Snapshot is a consistent copy of the list view state.
type Snapshot struct {
	Status Status
	Query  Query
	Page   *catalog.ListingPage
	Err    error
	// Generation increases with every navigation.
	Generation uint64
}

// ListView drives the listing through Idle, Loading, Loaded and Errored.
// Every navigation re-enters Loading and cancels the load in flight; the
// last navigation wins.
type ListView struct {
	loader   Loader
	pageSize int
	logger   zerolog.Logger

	mu     sync.Mutex
	state  Snapshot
	cancel context.CancelFunc
}

// NewListView creates an idle list view.
func NewListView(loader Loader, pageSize int) *ListView {
	if loader == nil {
		panic("loader cannot be nil")
	}
	return &ListView{
		loader:   loader,
		pageSize: pageSize,
		logger:   log.With().Str("component", "listview").Logger(),
		state:    Snapshot{Status: StatusIdle, Query: Query{Page: 1}},
	}
}

// Snapshot returns the current state.
func (v *ListView) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Load navigates to q and blocks until the load finishes.
// Returns ErrSuperseded if another navigation started meanwhile.
func (v *ListView) Load(ctx context.Context, q Query) (Snapshot, error) {
	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.cancel = cancel
	v.state.Generation++
	gen := v.state.Generation
	v.state.Status = StatusLoading
	v.state.Query = q
	v.state.Err = nil
	v.mu.Unlock()

	v.logger.Debug().
		Uint64("generation", gen).
		Int("page", q.Page).
		Str("search", q.Search).
		Msg("Loading listing")

	page, err := v.loader.LoadListing(loadCtx, q.Page, q.Search, v.pageSize)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state.Generation != gen {
		v.logger.Debug().Uint64("generation", gen).Msg("Discarding superseded listing")
		return v.state, ErrSuperseded
	}

	v.cancel = nil
	if err != nil {
		v.state.Status = StatusErrored
		v.state.Page = nil
		v.state.Err = err
		return v.state, err
	}

	v.state.Status = StatusLoaded
	v.state.Page = page
	return v.state, nil
}

// GoToPage moves to page p keeping the current search.
func (v *ListView) GoToPage(ctx context.Context, p int) (Snapshot, error) {
	return v.Load(ctx, v.Snapshot().Query.WithPage(p))
}

// SubmitSearch searches by name starting at page 1.
func (v *ListView) SubmitSearch(ctx context.Context, search string) (Snapshot, error) {
	return v.Load(ctx, v.Snapshot().Query.WithSearch(search))
}

// ClearSearch returns to the unfiltered first page.
func (v *ListView) ClearSearch(ctx context.Context) (Snapshot, error) {
	return v.Load(ctx, v.Snapshot().Query.ClearSearch())
}

// Close cancels the load in flight, if any.
func (v *ListView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}
