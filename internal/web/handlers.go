package web

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/residuos/internal/chart"
	"github.com/JonMunkholm/residuos/internal/core"
	"github.com/JonMunkholm/residuos/internal/logging"
	"github.com/JonMunkholm/residuos/internal/web/templates"
)

// Chart titles.
const (
	heatmapTitle = "Mapa de Calor da Geração de Resíduos por UF"
	regionsTitle = "Distribuição de Resíduos por Tipo e UF"
	unitTitleFmt = "Destinação de Resíduos por UF para '%s'"
)

// recentUploadsOnIndex is how many history rows the upload page lists.
const recentUploadsOnIndex = 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIndex renders the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := templates.IndexData{
		MaxFileSizeMB: s.service.MaxFileSize() >> 20,
		HistoryOn:     true,
	}

	recent, err := s.service.RecentUploads(r.Context(), recentUploadsOnIndex)
	switch {
	case errors.Is(err, core.ErrHistoryDisabled):
		data.HistoryOn = false
	case err != nil:
		// The page stays usable without history.
		logging.FromContext(r.Context()).Warn("failed to list recent uploads", "error", err)
		data.HistoryOn = false
	default:
		data.Recent = recent
	}

	render(w, r, http.StatusOK, templates.Index(data))
}

// handleSession renders the dashboard of one upload for the selection in
// the query string. An incomplete selection shows a prompt instead of results.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	sess, err := s.service.Session(id)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	spec := parseSelection(r)
	data := templates.SessionData{
		SessionID: sess.ID.String(),
		FileName:  sess.FileName,
		Records:   sess.Dataset.Len(),
		Preview:   sess.Dataset.Head(s.cfg.Upload.PreviewRows),
		Options:   sess.Dataset.Options(),
		Selection: spec,
		Query:     selectionQuery(spec),
	}

	view, err := s.service.Dashboard(r.Context(), id, spec)
	switch {
	case core.IsEmptySelection(err):
		data.Prompt = core.SelectionPrompt
	case err != nil:
		respondError(w, r, err, 0)
		return
	default:
		data.View = view
	}

	render(w, r, http.StatusOK, templates.Session(data))
}

// handleExport downloads the facility type and region summary spreadsheet.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	artifact, err := s.service.Export(ctx, id, parseSelection(r))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(artifact.Data); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
	}
}

// handleChart renders one of the dashboard charts as PNG.
//
// Kinds: heatmap (regions x categories), regions (stacked bars per region),
// unit (stacked bars per region for the facility type in ?unit=).
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	spec := parseSelection(r)
	byRegion := []core.Field{core.FieldRegion}

	var png []byte
	switch kind := chi.URLParam(r, "kind"); kind {
	case "heatmap":
		summary, err := s.service.Summary(r.Context(), id, spec, byRegion)
		if err != nil {
			respondError(w, r, err, 0)
			return
		}
		png, err = chart.Heatmap(summary, heatmapTitle)
		if err != nil {
			respondError(w, r, err, 0)
			return
		}

	case "regions":
		summary, err := s.service.Summary(r.Context(), id, spec, byRegion)
		if err != nil {
			respondError(w, r, err, 0)
			return
		}
		png, err = chart.StackedBars(summary, regionsTitle)
		if err != nil {
			respondError(w, r, err, 0)
			return
		}

	case "unit":
		unit := r.URL.Query().Get("unit")
		if _, ok := spec.FacilityTypes[unit]; !ok {
			respondError(w, r, fmt.Errorf("unit %q not selected: %w", unit, chart.ErrNoData), 0)
			return
		}
		unitSpec := core.NewFilterSpec([]string{unit}, spec.SelectedRegions())
		summary, err := s.service.Summary(r.Context(), id, unitSpec, byRegion)
		if err != nil {
			respondError(w, r, err, 0)
			return
		}
		png, err = chart.StackedBars(summary, fmt.Sprintf(unitTitleFmt, unit))
		if err != nil {
			respondError(w, r, err, 0)
			return
		}

	default:
		respondError(w, r, fmt.Errorf("unknown chart %q: %w", kind, chart.ErrNoData), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	if _, err := w.Write(png); err != nil {
		logging.FromContext(r.Context()).Warn("chart write failed", "error", err)
	}
}

// render writes a component as an HTML response.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}
