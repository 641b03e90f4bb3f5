package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type UploadHistory struct {
	ID            pgtype.UUID
	SessionID     pgtype.UUID
	FileName      string
	Format        string
	SizeBytes     int64
	RecordCount   int32
	FacilityTypes int32
	Regions       int32
	IpAddress     pgtype.Text
	UserAgent     pgtype.Text
	CreatedAt     pgtype.Timestamptz
}

type ExportHistory struct {
	ID                    pgtype.UUID
	SessionID             pgtype.UUID
	SelectedFacilityTypes []string
	SelectedRegions       []string
	RowCount              int32
	SizeBytes             int32
	IpAddress             pgtype.Text
	CreatedAt             pgtype.Timestamptz
}
