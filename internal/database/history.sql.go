package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertUpload = `-- name: InsertUpload :exec
INSERT INTO upload_history (
    id, session_id, file_name, format, size_bytes,
    record_count, facility_types, regions, ip_address, user_agent, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

type InsertUploadParams struct {
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

func (q *Queries) InsertUpload(ctx context.Context, arg InsertUploadParams) error {
	_, err := q.db.Exec(ctx, insertUpload,
		arg.ID,
		arg.SessionID,
		arg.FileName,
		arg.Format,
		arg.SizeBytes,
		arg.RecordCount,
		arg.FacilityTypes,
		arg.Regions,
		arg.IpAddress,
		arg.UserAgent,
		arg.CreatedAt,
	)
	return err
}

const insertExport = `-- name: InsertExport :exec
INSERT INTO export_history (
    id, session_id, selected_facility_types, selected_regions,
    row_count, size_bytes, ip_address, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type InsertExportParams struct {
	ID                    pgtype.UUID
	SessionID             pgtype.UUID
	SelectedFacilityTypes []string
	SelectedRegions       []string
	RowCount              int32
	SizeBytes             int32
	IpAddress             pgtype.Text
	CreatedAt             pgtype.Timestamptz
}

func (q *Queries) InsertExport(ctx context.Context, arg InsertExportParams) error {
	_, err := q.db.Exec(ctx, insertExport,
		arg.ID,
		arg.SessionID,
		arg.SelectedFacilityTypes,
		arg.SelectedRegions,
		arg.RowCount,
		arg.SizeBytes,
		arg.IpAddress,
		arg.CreatedAt,
	)
	return err
}

const listUploads = `-- name: ListUploads :many
SELECT id, session_id, file_name, format, size_bytes,
       record_count, facility_types, regions, ip_address, user_agent, created_at
FROM upload_history
ORDER BY created_at DESC
LIMIT $1
`

func (q *Queries) ListUploads(ctx context.Context, limit int32) ([]UploadHistory, error) {
	rows, err := q.db.Query(ctx, listUploads, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []UploadHistory
	for rows.Next() {
		var i UploadHistory
		if err := rows.Scan(
			&i.ID,
			&i.SessionID,
			&i.FileName,
			&i.Format,
			&i.SizeBytes,
			&i.RecordCount,
			&i.FacilityTypes,
			&i.Regions,
			&i.IpAddress,
			&i.UserAgent,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countExports = `-- name: CountExportsBySession :one
SELECT count(*) FROM export_history WHERE session_id = $1
`

func (q *Queries) CountExportsBySession(ctx context.Context, sessionID pgtype.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countExports, sessionID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
