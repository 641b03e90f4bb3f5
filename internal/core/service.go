package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNoFile is returned when an upload has no body.
	ErrNoFile = errors.New("no file provided")
)

// DefaultMaxFileSize is the upload limit used when none is configured.
const DefaultMaxFileSize int64 = 50 << 20

// ServiceConfig holds the tunables of a Service. Zero values fall back to defaults.
type ServiceConfig struct {
	MaxFileSize         int64
	MaxConcurrentParses int
	ParseWaitTime       time.Duration
	SessionTTL          time.Duration
	MaxSessions         int
	StrictRegions       bool
}

// Service runs the upload, filter, summarize and export pipeline for
// front ends. It owns the session store and the parse limiter.
type Service struct {
	cfg      ServiceConfig
	sessions *SessionStore
	limiter  *ParseLimiter
	history  HistoryRecorder
}

// NewService creates a Service. A nil history disables history recording.
func NewService(cfg ServiceConfig, history HistoryRecorder) *Service {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if history == nil {
		history = noopHistory{}
	}
	return &Service{
		cfg:      cfg,
		sessions: NewSessionStore(cfg.SessionTTL, cfg.MaxSessions),
		limiter:  NewParseLimiter(cfg.MaxConcurrentParses, cfg.ParseWaitTime),
		history:  history,
	}
}

// Sessions exposes the session store, mainly for the eviction scheduler.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// LimiterStatus reports parse slot usage.
func (s *Service) LimiterStatus() ParseLimiterStatus {
	return s.limiter.Status()
}

// MaxFileSize returns the effective upload limit in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.cfg.MaxFileSize
}

// Upload reads, parses and stores a file, returning the new session.
// Parsing waits for a free slot in the parse limiter.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader) (*Session, error) {
	if r == nil {
		return nil, ErrNoFile
	}

	format, err := DetectFormat(fileName)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: limit is %d MB", ErrFileTooLarge, s.cfg.MaxFileSize>>20)
	}

	start := time.Now()
	dataset, err := LoadWithOptions(data, format, LoadOptions{StrictRegions: s.cfg.StrictRegions})
	if err != nil {
		return nil, err
	}

	sess := s.sessions.Create(fileName, format, dataset)
	opts := dataset.Options()

	slog.Info("dataset loaded",
		"session_id", sess.ID,
		"file", fileName,
		"format", format,
		"records", dataset.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	ip, ua := ClientFromContext(ctx)
	entry := UploadEntry{
		ID:            uuid.NewString(),
		SessionID:     sess.ID.String(),
		FileName:      fileName,
		Format:        format,
		SizeBytes:     int64(len(data)),
		RecordCount:   dataset.Len(),
		FacilityTypes: len(opts.FacilityTypes),
		Regions:       len(opts.Regions),
		IPAddress:     ip,
		UserAgent:     ua,
		CreatedAt:     sess.CreatedAt,
	}
	if err := s.history.RecordUpload(ctx, entry); err != nil {
		slog.Warn("failed to record upload history", "session_id", sess.ID, "error", err)
	}

	return sess, nil
}

// ParseSessionID parses a session ID from its string form.
// Malformed IDs report ErrSessionNotFound.
func ParseSessionID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrSessionNotFound, s)
	}
	return id, nil
}

// Session returns a live session.
func (s *Service) Session(id uuid.UUID) (*Session, error) {
	return s.sessions.Get(id)
}

// Options returns the selectable values of a session's dataset.
func (s *Service) Options(id uuid.UUID) (Options, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return Options{}, err
	}
	return sess.Dataset.Options(), nil
}

// UnitSummary is the per-region breakdown of one facility type.
type UnitSummary struct {
	FacilityType string
	Summary      *GroupSummary
}

// DashboardView is everything the dashboard shows for one selection.
type DashboardView struct {
	Records          int
	Totals           Totals
	Total            decimal.Decimal
	Predominant      Category
	ByRegion         *GroupSummary
	ByFacilityRegion *GroupSummary
	ByUnit           []UnitSummary
}

// Empty reports whether the selection matched no records.
func (v *DashboardView) Empty() bool {
	return v.Records == 0
}

// BuildDashboard computes every indicator and grouping for filtered records.
func BuildDashboard(records []Record, spec FilterSpec) (*DashboardView, error) {
	totals := SumTotals(records)

	byRegion, err := Summarize(records, []Field{FieldRegion})
	if err != nil {
		return nil, err
	}
	byFacilityRegion, err := Summarize(records, []Field{FieldFacilityType, FieldRegion})
	if err != nil {
		return nil, err
	}

	var byUnit []UnitSummary
	for _, ft := range spec.SelectedFacilityTypes() {
		unitRecords := FilterRecords(records, FilterSpec{
			FacilityTypes: map[string]struct{}{ft: {}},
			Regions:       spec.Regions,
		})
		if len(unitRecords) == 0 {
			continue
		}
		summary, err := Summarize(unitRecords, []Field{FieldRegion})
		if err != nil {
			return nil, err
		}
		byUnit = append(byUnit, UnitSummary{FacilityType: ft, Summary: summary})
	}

	return &DashboardView{
		Records:          len(records),
		Totals:           totals,
		Total:            totals.Sum(),
		Predominant:      totals.Predominant(),
		ByRegion:         byRegion,
		ByFacilityRegion: byFacilityRegion,
		ByUnit:           byUnit,
	}, nil
}

// filtered validates spec and returns the matching records of a session.
func (s *Service) filtered(id uuid.UUID, spec FilterSpec) ([]Record, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return ApplyFilter(sess.Dataset, spec), nil
}

// Dashboard filters a session's dataset and computes the dashboard view.
// An empty selection returns *EmptySelectionError without aggregating.
func (s *Service) Dashboard(ctx context.Context, id uuid.UUID, spec FilterSpec) (*DashboardView, error) {
	records, err := s.filtered(id, spec)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return BuildDashboard(records, spec)
}

// Summary filters a session's dataset and groups it by the given fields.
func (s *Service) Summary(ctx context.Context, id uuid.UUID, spec FilterSpec, groupBy []Field) (*GroupSummary, error) {
	records, err := s.filtered(id, spec)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Summarize(records, groupBy)
}

// Export filters a session's dataset and builds the summary spreadsheet.
func (s *Service) Export(ctx context.Context, id uuid.UUID, spec FilterSpec) (*ExportArtifact, error) {
	records, err := s.filtered(id, spec)
	if err != nil {
		return nil, err
	}

	artifact, err := Export(records)
	if err != nil {
		return nil, err
	}

	ip, _ := ClientFromContext(ctx)
	entry := ExportEntry{
		ID:                    uuid.NewString(),
		SessionID:             id.String(),
		SelectedFacilityTypes: spec.SelectedFacilityTypes(),
		SelectedRegions:       spec.SelectedRegions(),
		Rows:                  artifact.Rows,
		SizeBytes:             len(artifact.Data),
		IPAddress:             ip,
		CreatedAt:             time.Now(),
	}
	if err := s.history.RecordExport(ctx, entry); err != nil {
		slog.Warn("failed to record export history", "session_id", id, "error", err)
	}

	slog.Info("export generated", "session_id", id, "artifact", artifact.String())
	return artifact, nil
}

// RecentUploads lists the latest uploads, newest first.
func (s *Service) RecentUploads(ctx context.Context, limit int) ([]UploadEntry, error) {
	return s.history.RecentUploads(ctx, limit)
}

// Shutdown waits for in-flight parses to finish.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
