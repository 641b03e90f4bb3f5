package web

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/residuos/internal/core"
)

// defaultUploadHistoryLimit is the page size of GET /api/uploads.
const defaultUploadHistoryLimit = 20

// QuantitiesResponse maps canonical category names to tonnes.
type QuantitiesResponse map[string]decimal.Decimal

func toQuantities(q core.Quantities) QuantitiesResponse {
	out := make(QuantitiesResponse, core.NumCategories)
	for _, c := range core.Categories {
		out[c.String()] = q.Get(c)
	}
	return out
}

// GroupResponse is one group of a summary.
type GroupResponse struct {
	Key        []string           `json:"key"`
	Quantities QuantitiesResponse `json:"quantities"`
	Total      decimal.Decimal    `json:"total"`
	Records    int                `json:"records"`
}

// SummaryResponse is the JSON answer of GET /api/session/{id}/summary.
type SummaryResponse struct {
	GroupBy     []core.Field       `json:"group_by"`
	Groups      []GroupResponse    `json:"groups"`
	Totals      QuantitiesResponse `json:"totals"`
	Total       decimal.Decimal    `json:"total"`
	Predominant string             `json:"predominant"`
}

func toSummaryResponse(s *core.GroupSummary) SummaryResponse {
	totals := s.Totals()
	resp := SummaryResponse{
		GroupBy:     s.GroupBy,
		Groups:      make([]GroupResponse, 0, s.Len()),
		Totals:      toQuantities(totals),
		Total:       totals.Sum(),
		Predominant: totals.Predominant().String(),
	}
	for _, g := range s.Groups {
		resp.Groups = append(resp.Groups, GroupResponse{
			Key:        g.Key,
			Quantities: toQuantities(g.Quantities),
			Total:      g.Total(),
			Records:    g.Records,
		})
	}
	return resp
}

// UploadHistoryResponse is one row of GET /api/uploads.
type UploadHistoryResponse struct {
	ID            string      `json:"id"`
	SessionID     string      `json:"session_id"`
	FileName      string      `json:"file_name"`
	Format        core.Format `json:"format"`
	SizeBytes     int64       `json:"size_bytes"`
	Records       int         `json:"records"`
	FacilityTypes int         `json:"facility_types"`
	Regions       int         `json:"regions"`
	CreatedAt     time.Time   `json:"created_at"`
}

// StatusResponse is the JSON answer of GET /api/status.
type StatusResponse struct {
	Sessions int                     `json:"sessions"`
	Parses   core.ParseLimiterStatus `json:"parses"`
}

func (s *Server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	opts, err := s.service.Options(id)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// handleAPISummary groups the selected records by the group_by fields.
// An incomplete selection answers 422.
func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	groupBy, err := parseGroupBy(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	summary, err := s.service.Summary(r.Context(), id, parseSelection(r), groupBy)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (s *Server) handleAPIUploads(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", defaultUploadHistoryLimit)

	entries, err := s.service.RecentUploads(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	resp := make([]UploadHistoryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, UploadHistoryResponse{
			ID:            e.ID,
			SessionID:     e.SessionID,
			FileName:      e.FileName,
			Format:        e.Format,
			SizeBytes:     e.SizeBytes,
			Records:       e.RecordCount,
			FacilityTypes: e.FacilityTypes,
			Regions:       e.Regions,
			CreatedAt:     e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAPIStatus reports session and parse slot usage.
func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Sessions: s.service.Sessions().Len(),
		Parses:   s.service.LimiterStatus(),
	})
}

// handleAPIDeleteSession discards an uploaded dataset.
func (s *Server) handleAPIDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}
	if _, err := s.service.Session(id); err != nil {
		respondError(w, r, err, 0)
		return
	}
	s.service.Sessions().Delete(id)
	w.WriteHeader(http.StatusNoContent)
}
