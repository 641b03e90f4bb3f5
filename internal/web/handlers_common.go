package web

// This file contains shared request parsing helpers used across handlers.

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/residuos/internal/core"
)

// Query parameter names of a selection.
const (
	paramFacilityType = "facility_type"
	paramRegion       = "region"
	paramGroupBy      = "group_by"
)

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// sessionID parses the {sessionID} URL parameter.
func sessionID(r *http.Request) (uuid.UUID, error) {
	return core.ParseSessionID(chi.URLParam(r, "sessionID"))
}

// parseSelection reads the repeated facility_type and region parameters.
func parseSelection(r *http.Request) core.FilterSpec {
	q := r.URL.Query()
	return core.NewFilterSpec(q[paramFacilityType], q[paramRegion])
}

// selectionQuery encodes a selection back into query parameters.
func selectionQuery(spec core.FilterSpec) string {
	q := url.Values{}
	for _, v := range spec.SelectedFacilityTypes() {
		q.Add(paramFacilityType, v)
	}
	for _, v := range spec.SelectedRegions() {
		q.Add(paramRegion, v)
	}
	return q.Encode()
}

// parseGroupBy reads the repeated group_by parameter, defaulting to region.
func parseGroupBy(r *http.Request) ([]core.Field, error) {
	values := r.URL.Query()[paramGroupBy]
	if len(values) == 0 {
		return []core.Field{core.FieldRegion}, nil
	}
	fields := make([]core.Field, 0, len(values))
	for _, v := range values {
		f, ok := core.ParseField(v)
		if !ok {
			return nil, &core.ParseError{Column: paramGroupBy, Value: v, Reason: fmt.Sprintf("cannot group by %q", v)}
		}
		fields = append(fields, f)
	}
	if err := core.ValidateGroupBy(fields); err != nil {
		return nil, &core.ParseError{Column: paramGroupBy, Reason: err.Error(), Err: err}
	}
	return fields, nil
}
