package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/StoreDirectory/internal/core"
	"github.com/JonMunkholm/StoreDirectory/internal/logging"
)

// storeItem is one record of the display set with its master position.
type storeItem struct {
	Pos    int         `json:"pos"`
	Record core.Record `json:"record"`
}

type storesResponse struct {
	Total    int           `json:"total"`
	Count    int           `json:"count"`
	Query    string        `json:"query,omitempty"`
	Criteria core.Criteria `json:"criteria,omitempty"`
	Stores   []storeItem   `json:"stores"`
}

type storeResponse struct {
	Pos    int              `json:"pos"`
	Record core.Record      `json:"record"`
	Detail core.StoreDetail `json:"detail"`
}

type loadResponse struct {
	ID       string            `json:"id"`
	Source   string            `json:"source"`
	LoadedAt time.Time         `json:"loaded_at"`
	Stores   int               `json:"stores"`
	Skipped  []core.SkippedRow `json:"skipped"`
}

type statsResponse struct {
	Stats core.Stats   `json:"stats"`
	Load  loadResponse `json:"load"`
}

func newLoadResponse(ds *core.Dataset) loadResponse {
	skipped := ds.Skipped
	if skipped == nil {
		skipped = []core.SkippedRow{}
	}
	return loadResponse{
		ID:       ds.ID.String(),
		Source:   ds.Source,
		LoadedAt: ds.LoadedAt,
		Stores:   ds.Len(),
		Skipped:  skipped,
	}
}

// handleAPIStores returns the display set for the request's search or filter.
func (s *Server) handleAPIStores(w http.ResponseWriter, r *http.Request) {
	v, err := s.viewFromRequest(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}

	resp := storesResponse{
		Total:    v.Master.Len(),
		Count:    v.Len(),
		Query:    v.Query,
		Criteria: v.Criteria.Active(),
		Stores:   make([]storeItem, len(v.Rows)),
	}
	for i, row := range v.Rows {
		resp.Stores[i] = storeItem{Pos: row.Pos, Record: row.Record}
	}
	writeJSON(w, resp)
}

// handleAPIStore returns one record and its detail presentation.
func (s *Server) handleAPIStore(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, storeResponse{
		Pos:    pos,
		Record: rec,
		Detail: s.service.Schema().Detail(rec),
	})
}

// handleAPIStats returns master statistics and load diagnostics.
func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	v, err := s.service.View()
	if err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, statsResponse{
		Stats: v.Stats(),
		Load:  newLoadResponse(v.Master),
	})
}

// handleExport streams the display set as CSV in header column order.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	v, err := s.viewFromRequest(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}

	header := v.Master.Header
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("stores_%s.csv", timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	csvWriter := csv.NewWriter(w)
	_ = csvWriter.Write(header)

	record := make([]string, len(header))
	for _, row := range v.Rows {
		for i, col := range header {
			record[i] = row.Record.Get(col)
		}
		_ = csvWriter.Write(record)
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		logging.FromContext(r.Context()).Error("export write failed", "error", err)
	}
}

// handleReload runs one load attempt. A failure leaves the current
// dataset in place.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	ds, err := s.service.Load(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, newLoadResponse(ds))
}
