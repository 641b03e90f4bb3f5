package database

import (
	"context"
	"fmt"
)

// schema is idempotent so Migrate can run on every start.
const schema = `
CREATE TABLE IF NOT EXISTS upload_history (
    id             UUID PRIMARY KEY,
    session_id     UUID NOT NULL,
    file_name      TEXT NOT NULL,
    format         TEXT NOT NULL,
    size_bytes     BIGINT NOT NULL,
    record_count   INTEGER NOT NULL,
    facility_types INTEGER NOT NULL,
    regions        INTEGER NOT NULL,
    ip_address     TEXT,
    user_agent     TEXT,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS upload_history_created_at_idx
    ON upload_history (created_at DESC);

CREATE TABLE IF NOT EXISTS export_history (
    id                      UUID PRIMARY KEY,
    session_id              UUID NOT NULL,
    selected_facility_types TEXT[] NOT NULL,
    selected_regions        TEXT[] NOT NULL,
    row_count               INTEGER NOT NULL,
    size_bytes              INTEGER NOT NULL,
    ip_address              TEXT,
    created_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS export_history_session_idx
    ON export_history (session_id);
`

// Migrate creates the history tables if they do not exist.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate history schema: %w", err)
	}
	return nil
}
