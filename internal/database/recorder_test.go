package database

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/residuos/internal/core"
)

// captureDB records Exec calls and fails everything else.
type captureDB struct {
	sql  []string
	args [][]interface{}
	err  error
}

func (c *captureDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	c.sql = append(c.sql, sql)
	c.args = append(c.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), c.err
}

func (c *captureDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("query not supported")
}

func (c *captureDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return errRow{}
}

type errRow struct{}

func (errRow) Scan(...any) error { return errors.New("query not supported") }

func TestRecorder_RecordUpload(t *testing.T) {
	db := &captureDB{}
	rec := NewRecorder(db)

	id := uuid.New()
	sessionID := uuid.New()
	created := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	err := rec.RecordUpload(context.Background(), core.UploadEntry{
		ID:            id.String(),
		SessionID:     sessionID.String(),
		FileName:      "fluxo.xlsx",
		Format:        core.FormatXLSX,
		SizeBytes:     2048,
		RecordCount:   12,
		FacilityTypes: 3,
		Regions:       5,
		IPAddress:     "10.1.1.1",
		CreatedAt:     created,
	})
	require.NoError(t, err)
	require.Len(t, db.args, 1)
	assert.Equal(t, insertUpload, db.sql[0])

	args := db.args[0]
	require.Len(t, args, 11)
	assert.Equal(t, pgtype.UUID{Bytes: id, Valid: true}, args[0])
	assert.Equal(t, pgtype.UUID{Bytes: sessionID, Valid: true}, args[1])
	assert.Equal(t, "fluxo.xlsx", args[2])
	assert.Equal(t, "xlsx", args[3])
	assert.Equal(t, int32(12), args[5])
	assert.Equal(t, pgtype.Text{String: "10.1.1.1", Valid: true}, args[8])
	assert.Equal(t, pgtype.Text{}, args[9], "empty user agent stored as NULL")
	assert.Equal(t, pgtype.Timestamptz{Time: created, Valid: true}, args[10])
}

func TestRecorder_RecordExport(t *testing.T) {
	db := &captureDB{}
	rec := NewRecorder(db)

	err := rec.RecordExport(context.Background(), core.ExportEntry{
		ID:              uuid.NewString(),
		SessionID:       uuid.NewString(),
		SelectedRegions: []string{"RJ", "SP"},
		Rows:            4,
		SizeBytes:       6100,
	})
	require.NoError(t, err)
	require.Len(t, db.args, 1)

	args := db.args[0]
	assert.Equal(t, []string{}, args[2], "nil selection stored as empty array")
	assert.Equal(t, []string{"RJ", "SP"}, args[3])
	assert.Equal(t, int32(4), args[4])
	ts, ok := args[7].(pgtype.Timestamptz)
	require.True(t, ok)
	assert.True(t, ts.Valid && !ts.Time.IsZero(), "zero CreatedAt replaced with now")
}

func TestRecorder_WrapsErrors(t *testing.T) {
	db := &captureDB{err: errors.New("connection refused")}
	rec := NewRecorder(db)

	err := rec.RecordUpload(context.Background(), core.UploadEntry{ID: uuid.NewString()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert upload history")
	assert.Equal(t, "DB001", core.MapError(err).Code)

	_, err = rec.RecentUploads(context.Background(), 5)
	assert.ErrorContains(t, err, "list upload history")
}

func TestToPgUUID(t *testing.T) {
	assert.False(t, toPgUUID("").Valid)
	assert.False(t, toPgUUID("not-a-uuid").Valid)

	id := uuid.New()
	got := toPgUUID(id.String())
	assert.True(t, got.Valid)
	assert.Equal(t, id.String(), uuidToString(got))
	assert.Equal(t, "", uuidToString(pgtype.UUID{}))
}

// TestRecorder_Postgres runs against a real database when
// RESIDUOS_TEST_DATABASE_URL is set.
func TestRecorder_Postgres(t *testing.T) {
	dsn := os.Getenv("RESIDUOS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("RESIDUOS_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool), "migrate is idempotent")

	rec := NewRecorder(pool)
	sessionID := uuid.NewString()
	entry := core.UploadEntry{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		FileName:      "integration.csv",
		Format:        core.FormatCSV,
		SizeBytes:     10,
		RecordCount:   1,
		FacilityTypes: 1,
		Regions:       1,
		CreatedAt:     time.Now().Add(time.Hour),
	}
	require.NoError(t, rec.RecordUpload(ctx, entry))
	require.NoError(t, rec.RecordExport(ctx, core.ExportEntry{
		ID:                    uuid.NewString(),
		SessionID:             sessionID,
		SelectedFacilityTypes: []string{"Aterro"},
		SelectedRegions:       []string{"SP"},
		Rows:                  1,
	}))

	recent, err := rec.RecentUploads(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, entry.ID, recent[0].ID)
	assert.Equal(t, "integration.csv", recent[0].FileName)

	n, err := New(pool).CountExportsBySession(ctx, toPgUUID(sessionID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
