package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/StoreDirectory/internal/core"
	"github.com/JonMunkholm/StoreDirectory/internal/logging"
	"github.com/JonMunkholm/StoreDirectory/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// criteriaFromQuery collects the structured filter parameters.
func criteriaFromQuery(q url.Values) core.Criteria {
	c := make(core.Criteria)
	for _, f := range core.FilterFields {
		if v := q.Get(string(f)); v != "" {
			c[f] = v
		}
	}
	return c
}

// viewFromRequest derives the display set from the query string. A
// non-blank q runs a global search and the filter fields are ignored.
func (s *Server) viewFromRequest(r *http.Request) (core.View, error) {
	v, err := s.service.View()
	if err != nil {
		return v, err
	}

	q := r.URL.Query()
	if query := q.Get("q"); strings.TrimSpace(query) != "" {
		return v.Search(query), nil
	}
	if c := criteriaFromQuery(q); !c.IsEmpty() {
		return v.Filter(c), nil
	}
	return v, nil
}

// parsePos reads the {pos} URL parameter. Anything that is not a
// non-negative integer is reported as a missing store.
func parsePos(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "pos")
	pos, err := strconv.Atoi(raw)
	if err != nil || pos < 0 {
		return 0, fmt.Errorf("position %q: %w", raw, core.ErrStoreNotFound)
	}
	return pos, nil
}

func resultRows(v core.View) []templates.ResultRow {
	schema := v.Schema
	rows := make([]templates.ResultRow, len(v.Rows))
	for i, row := range v.Rows {
		rec := row.Record
		rows[i] = templates.ResultRow{
			Pos:        row.Pos,
			Name:       rec.Get(schema.StoreName),
			Number:     rec.Get(schema.StoreNumber),
			Country:    rec.Get(schema.Country),
			MarketTeam: rec.Get(schema.MarketTeam),
			Market:     rec.Get(schema.Market),
			Status:     schema.Badge(rec),
		}
	}
	return rows
}

func loadInfo(ds *core.Dataset) *templates.LoadInfo {
	if ds == nil {
		return nil
	}
	return &templates.LoadInfo{
		ID:       ds.ID.String(),
		Source:   ds.Source,
		LoadedAt: ds.LoadedAt,
		Skipped:  len(ds.Skipped),
	}
}

// handleIndex renders the directory page. Without a dataset the page still
// renders, showing the load error in place of results.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := templates.IndexData{
		Title:          s.cfg.UI.Title,
		DebounceMillis: s.cfg.UI.DebounceMillis(),
		Query:          q.Get("q"),
		Filters:        criteriaFromQuery(q),
	}

	v, err := s.viewFromRequest(r)
	if err != nil {
		msg := core.MapError(err)
		data.Error = &msg
		logging.FromContext(r.Context()).Warn("directory unavailable", "error", err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = templates.Index(data).Render(r.Context(), w)
		return
	}

	data.Stats = v.Stats()
	data.Rows = resultRows(v)
	data.Load = loadInfo(v.Master)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// handleResults renders the results partial swapped in by search and
// filter requests.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	v, err := s.viewFromRequest(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Results(resultRows(v)).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render results", "error", err)
	}
}

// handleStoreDetail renders one store: a modal fragment for HTMX requests,
// a full page otherwise.
func (s *Server) handleStoreDetail(w http.ResponseWriter, r *http.Request) {
	ds, err := s.service.Current()
	if err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}

	pos, err := parsePos(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	rec, err := ds.At(pos)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("position %d: %w", pos, err), http.StatusNotFound)
		return
	}

	detail := s.service.Schema().Detail(rec)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	c := templates.DetailPage(s.cfg.UI.Title, detail)
	if isHTMX(r) {
		c = templates.DetailModal(detail)
	}
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render store detail", "pos", pos, "error", err)
	}
}

// handleHealth reports liveness and whether a dataset is loaded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if ds, err := s.service.Current(); err == nil {
		resp.Loaded = true
		resp.Stores = ds.Len()
	} else if lastErr := s.service.LastError(); lastErr != nil {
		resp.LastError = core.MapError(lastErr).Code
	}
	writeJSON(w, resp)
}

type healthResponse struct {
	Status    string `json:"status"`
	Loaded    bool   `json:"loaded"`
	Stores    int    `json:"stores"`
	LastError string `json:"last_error,omitempty"`
}
