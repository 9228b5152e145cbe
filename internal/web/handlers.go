package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/Sternrassler/pokeapi-explorer/internal/web/components"
	"github.com/Sternrassler/pokeapi-explorer/pkg/catalog"
	"github.com/Sternrassler/pokeapi-explorer/pkg/client"
	"github.com/Sternrassler/pokeapi-explorer/pkg/logging"
	"github.com/Sternrassler/pokeapi-explorer/pkg/pagination"
	"github.com/Sternrassler/pokeapi-explorer/pkg/view"
)

// Messages shown for upstream failures. Upstream details stay in the log.
const (
	listingErrorMessage = "The Pokémon list could not be loaded. Please try again later."
	detailErrorMessage  = "This Pokémon could not be loaded. Please try again later."
)

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q := view.ParseQuery(values)
	data := components.ListingData{
		Query:    q,
		Sort:     view.ParseSort(values),
		PageSize: s.config.PageSize,
	}

	page, err := s.catalog.LoadListing(r.Context(), q.Page, q.Search, s.config.PageSize)
	if err != nil {
		logging.FromContext(r.Context()).Warn().
			Err(err).
			Int("page", q.Page).
			Str("search", q.Search).
			Str("error_class", string(client.ClassOf(err))).
			Msg("Listing load failed")
		data.Err = listingErrorMessage
		s.render(w, r, statusFor(err), components.ListingPage(data))
		return
	}

	// A page past the end would render an empty table under a summary of
	// rows that are not there; send the browser to the last page instead.
	if last := pagination.TotalPages(page.TotalCount, s.config.PageSize); q.Search == "" && last >= 1 && q.Page > last {
		http.Redirect(w, r, data.Sort.URL(components.ListingPath, q.WithPage(last)), http.StatusFound)
		return
	}

	data.Page = page
	s.render(w, r, http.StatusOK, components.ListingPage(data))
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	ref := strings.ToLower(strings.TrimSpace(r.PathValue("name")))
	values := r.URL.Query()

	triggerPage := 1
	if p, err := strconv.Atoi(values.Get(components.KeyTriggerPage)); err == nil && p > 1 {
		triggerPage = p
	}

	detail, err := s.catalog.LoadDetailView(r.Context(), ref, triggerPage, s.config.TriggerPageSize)
	if err != nil {
		status := statusFor(err)
		logging.FromContext(r.Context()).Warn().
			Err(err).
			Str("ref", ref).
			Int("status", status).
			Msg("Detail load failed")

		if status == http.StatusNotFound {
			s.render(w, r, status, components.ErrorPage("Not found", fmt.Sprintf("No Pokémon named %q.", ref)))
			return
		}
		s.render(w, r, status, components.ErrorPage("Something went wrong", detailErrorMessage))
		return
	}

	s.render(w, r, http.StatusOK, components.DetailPage(components.DetailData{
		Ref:             ref,
		View:            detail,
		Tab:             components.ParseTab(values.Get(components.KeyTab)),
		TriggerPageSize: s.config.TriggerPageSize,
		Sort:            view.ParseSort(values),
	}))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.redis != nil {
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			logging.FromContext(r.Context()).Warn().Err(err).Msg("Readiness check failed")
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "READY")
}

// statusFor maps a load error to the response status: 404 for a missing
// entity, 400 for a bad argument, 502 for everything upstream.
func statusFor(err error) int {
	switch {
	case client.IsStatus(err, http.StatusNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("Failed to render page")
	}
}
