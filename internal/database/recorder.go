package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/residuos/internal/core"
)

// HistoryTimeout bounds each history write so a slow database never holds
// up an upload or download.
var HistoryTimeout = 5 * time.Second

// Recorder stores core history entries in PostgreSQL.
type Recorder struct {
	q *Queries
}

// NewRecorder returns a core.HistoryRecorder backed by db.
func NewRecorder(db DBTX) *Recorder {
	return &Recorder{q: New(db)}
}

var _ core.HistoryRecorder = (*Recorder)(nil)

func (r *Recorder) RecordUpload(ctx context.Context, e core.UploadEntry) error {
	ctx, cancel := context.WithTimeout(ctx, HistoryTimeout)
	defer cancel()

	err := r.q.InsertUpload(ctx, InsertUploadParams{
		ID:            toPgUUID(e.ID),
		SessionID:     toPgUUID(e.SessionID),
		FileName:      e.FileName,
		Format:        string(e.Format),
		SizeBytes:     e.SizeBytes,
		RecordCount:   int32(e.RecordCount),
		FacilityTypes: int32(e.FacilityTypes),
		Regions:       int32(e.Regions),
		IpAddress:     toPgText(e.IPAddress),
		UserAgent:     toPgText(e.UserAgent),
		CreatedAt:     toPgTimestamptz(e.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("insert upload history: %w", err)
	}
	return nil
}

func (r *Recorder) RecordExport(ctx context.Context, e core.ExportEntry) error {
	ctx, cancel := context.WithTimeout(ctx, HistoryTimeout)
	defer cancel()

	err := r.q.InsertExport(ctx, InsertExportParams{
		ID:                    toPgUUID(e.ID),
		SessionID:             toPgUUID(e.SessionID),
		SelectedFacilityTypes: nonNil(e.SelectedFacilityTypes),
		SelectedRegions:       nonNil(e.SelectedRegions),
		RowCount:              int32(e.Rows),
		SizeBytes:             int32(e.SizeBytes),
		IpAddress:             toPgText(e.IPAddress),
		CreatedAt:             toPgTimestamptz(e.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("insert export history: %w", err)
	}
	return nil
}

func (r *Recorder) RecentUploads(ctx context.Context, limit int) ([]core.UploadEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.q.ListUploads(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list upload history: %w", err)
	}

	entries := make([]core.UploadEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, uploadRowToEntry(row))
	}
	return entries, nil
}

func uploadRowToEntry(row UploadHistory) core.UploadEntry {
	return core.UploadEntry{
		ID:            uuidToString(row.ID),
		SessionID:     uuidToString(row.SessionID),
		FileName:      row.FileName,
		Format:        core.Format(row.Format),
		SizeBytes:     row.SizeBytes,
		RecordCount:   int(row.RecordCount),
		FacilityTypes: int(row.FacilityTypes),
		Regions:       int(row.Regions),
		IPAddress:     row.IpAddress.String,
		UserAgent:     row.UserAgent.String,
		CreatedAt:     row.CreatedAt.Time,
	}
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgUUID(s string) pgtype.UUID {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

func uuidToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

func toPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		t = time.Now()
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
