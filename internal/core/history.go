package core

import (
	"context"
	"errors"
	"time"
)

// ErrHistoryDisabled is returned by history queries when no database is configured.
var ErrHistoryDisabled = errors.New("history disabled")

// HistoryAction names what a history entry records.
type HistoryAction string

const (
	ActionUpload HistoryAction = "upload"
	ActionExport HistoryAction = "export"
)

// UploadEntry describes one successful upload.
type UploadEntry struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	FileName      string    `json:"file_name"`
	Format        Format    `json:"format"`
	SizeBytes     int64     `json:"size_bytes"`
	RecordCount   int       `json:"record_count"`
	FacilityTypes int       `json:"facility_types"`
	Regions       int       `json:"regions"`
	IPAddress     string    `json:"ip_address,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ExportEntry describes one generated spreadsheet.
type ExportEntry struct {
	ID                    string    `json:"id"`
	SessionID             string    `json:"session_id"`
	SelectedFacilityTypes []string  `json:"selected_facility_types"`
	SelectedRegions       []string  `json:"selected_regions"`
	Rows                  int       `json:"rows"`
	SizeBytes             int       `json:"size_bytes"`
	IPAddress             string    `json:"ip_address,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// HistoryRecorder persists upload and export history.
type HistoryRecorder interface {
	RecordUpload(ctx context.Context, entry UploadEntry) error
	RecordExport(ctx context.Context, entry ExportEntry) error
	RecentUploads(ctx context.Context, limit int) ([]UploadEntry, error)
}

// noopHistory is used when no database is configured.
type noopHistory struct{}

func (noopHistory) RecordUpload(context.Context, UploadEntry) error { return nil }
func (noopHistory) RecordExport(context.Context, ExportEntry) error { return nil }
func (noopHistory) RecentUploads(context.Context, int) ([]UploadEntry, error) {
	return nil, ErrHistoryDisabled
}
