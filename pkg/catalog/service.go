// Package catalog orchestrates the read-only PokeAPI calls behind the
// listing, search, detail and evolution trigger views, and shapes the
// upstream JSON into uniform page structures.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/pokeapi-explorer/pkg/client"
	"github.com/Sternrassler/pokeapi-explorer/pkg/logging"
	"github.com/Sternrassler/pokeapi-explorer/pkg/pagination"
)

// Fetcher performs a status-checked GET relative to the API root and
// decodes the JSON body. *client.Client implements it.
type Fetcher interface {
	GetJSON(ctx context.Context, path string, query url.Values, v any) error
}

// Config holds the orchestrator configuration.
type Config struct {
	// Batch bounds the per-trigger detail fetches of a trigger page
	Batch pagination.Config
}

// DefaultConfig returns the default orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		Batch: pagination.DefaultConfig(),
	}
}

// Service loads listing, detail and trigger pages.
type Service struct {
	api    Fetcher
	config Config
	logger zerolog.Logger
}

// NewService creates a new catalog service.
func NewService(api Fetcher, cfg Config) *Service {
	if api == nil {
		panic("fetcher cannot be nil")
	}
	return &Service{
		api:    api,
		config: cfg,
		logger: logging.NewLogger("catalog"),
	}
}

// LoadListing returns one page of the listing, or the by-name search result
// when search is non-empty.
// A search that matches nothing yields an empty page and a nil error.
func (s *Service) LoadListing(ctx context.Context, page int, search string, pageSize int) (*ListingPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page %d < 1", ErrInvalidArgument, page)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: page size %d <= 0", ErrInvalidArgument, pageSize)
	}

	search = strings.TrimSpace(search)
	if search != "" {
		if isDotSegment(search) {
			s.logger.Debug().Str("search", search).Msg("Search matched nothing")
			return &ListingPage{TotalCount: 0, Items: []ListingItem{}, PageIndex: 1}, nil
		}
		listing, err := s.searchByName(ctx, search)
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			s.logger.Debug().Str("search", search).Msg("Search matched nothing")
			return &ListingPage{TotalCount: 0, Items: []ListingItem{}, PageIndex: 1}, nil
		}
		return listing, err
	}

	offset := pagination.Offset(page, pageSize)

	var list resourceList
	if err := s.api.GetJSON(ctx, "/pokemon", pageQuery(pageSize, offset), &list); err != nil {
		return nil, fmt.Errorf("load listing page %d: %w", page, err)
	}

	items := make([]ListingItem, 0, len(list.Results))
	for i, r := range list.Results {
		items = append(items, ListingItem{
			DisplayName:  r.Name,
			SequentialID: offset + i + 1,
			DetailRef:    strings.ToLower(r.Name),
		})
	}

	s.logger.Debug().
		Int("page", page).
		Int("offset", offset).
		Int("items", len(items)).
		Int("total", list.Count).
		Msg("Loaded listing page")

	return &ListingPage{
		TotalCount: list.Count,
		Items:      items,
		PageIndex:  page,
	}, nil
}

// searchByName looks one entity up by exact name.
// Returns *NotFoundError when the upstream answers 404.
func (s *Service) searchByName(ctx context.Context, name string) (*ListingPage, error) {
	var p pokemonResource
	err := s.api.GetJSON(ctx, detailPath(name), nil, &p)
	if client.IsStatus(err, http.StatusNotFound) {
		return nil, &NotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", name, err)
	}

	return &ListingPage{
		TotalCount: 1,
		Items: []ListingItem{{
			DisplayName:  p.Name,
			SequentialID: p.ID,
			DetailRef:    strings.ToLower(p.Name),
		}},
		PageIndex: 1,
	}, nil
}

// LoadDetail fetches the detail record for ref. A missing entity is an
// *client.UpstreamError with status 404.
func (s *Service) LoadDetail(ctx context.Context, ref string) (*DetailRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty detail reference", ErrInvalidArgument)
	}
	if isDotSegment(ref) {
		return nil, fmt.Errorf("%w: detail reference %q", ErrInvalidArgument, ref)
	}

	var p pokemonResource
	if err := s.api.GetJSON(ctx, detailPath(ref), nil, &p); err != nil {
		return nil, fmt.Errorf("load detail %q: %w", ref, err)
	}

	return p.toDetail(), nil
}

// LoadEvolutionTriggers returns one page of evolution triggers with each
// trigger's localized name and species count. Any failed trigger fetch
// fails the page.
func (s *Service) LoadEvolutionTriggers(ctx context.Context, page, pageSize int) (*TriggerPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page %d < 1", ErrInvalidArgument, page)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: page size %d <= 0", ErrInvalidArgument, pageSize)
	}

	offset := pagination.Offset(page, pageSize)

	var list resourceList
	if err := s.api.GetJSON(ctx, "/evolution-trigger", pageQuery(pageSize, offset), &list); err != nil {
		return nil, fmt.Errorf("load evolution triggers page %d: %w", page, err)
	}

	names := make([]string, 0, len(list.Results))
	for _, r := range list.Results {
		names = append(names, r.Name)
	}

	details, err := pagination.FetchAll(ctx, s.config.Batch, names,
		func(ctx context.Context, name string) (*evolutionTriggerResource, error) {
			var r evolutionTriggerResource
			if err := s.api.GetJSON(ctx, "/evolution-trigger/"+url.PathEscape(name), nil, &r); err != nil {
				return nil, err
			}
			return &r, nil
		})
	if err != nil {
		return nil, fmt.Errorf("load evolution trigger details: %w", err)
	}

	items := make([]EvolutionTrigger, 0, len(details))
	for i, d := range details {
		display := d.englishName()
		if display == "" {
			display = names[i]
		}
		items = append(items, EvolutionTrigger{
			ID:           offset + i + 1,
			Name:         names[i],
			DisplayName:  display,
			SpeciesCount: len(d.PokemonSpecies),
		})
	}

	return &TriggerPage{
		TotalCount: list.Count,
		Items:      items,
		PageIndex:  page,
	}, nil
}

// LoadDetailView loads the detail record and the evolution trigger page
// concurrently. A detail failure fails the view; a trigger failure is
// reported in DetailView.TriggersErr.
func (s *Service) LoadDetailView(ctx context.Context, ref string, triggerPage, triggerPageSize int) (*DetailView, error) {
	view := &DetailView{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		detail, err := s.LoadDetail(gctx, ref)
		if err != nil {
			return err
		}
		view.Detail = detail
		return nil
	})

	g.Go(func() error {
		triggers, err := s.LoadEvolutionTriggers(gctx, triggerPage, triggerPageSize)
		if err != nil {
			s.logger.Warn().Err(err).Str("ref", ref).Msg("Evolution triggers unavailable")
			view.TriggersErr = err
			return nil
		}
		view.Triggers = triggers
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return view, nil
}

// isDotSegment reports names that url.PathEscape leaves as path segments
// the upstream would resolve to the collection or its parent.
func isDotSegment(name string) bool {
	return name == "." || name == ".."
}

func detailPath(name string) string {
	return "/pokemon/" + url.PathEscape(strings.ToLower(name))
}

func pageQuery(limit, offset int) url.Values {
	return url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
}
