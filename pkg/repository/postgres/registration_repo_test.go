package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hackathon/pkg/migrations"
	"github.com/artem13815/hackathon/pkg/registration"
	pgstore "github.com/artem13815/hackathon/pkg/storage/postgres"
)

// These tests need a disposable database: TEST_DATABASE_URL=postgres://...
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgstore.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := pgstore.SQLDB(pool)
	_, err = migrations.Up(ctx, db, goose.DialectPostgres)
	require.NoError(t, err)
	return pool
}

func TestRegistrationRepository_ReplaceAndRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewRegistrationRepository(testPool(t))

	newer := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	older := time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)
	batch := []registration.Cleaned{
		{Timestamp: registration.FormatTimestamp(older), SubmittedAt: &older, FullName: "Old"},
		{Timestamp: registration.UnknownTimestamp, FullName: "Unknown"},
		{Timestamp: registration.FormatTimestamp(newer), SubmittedAt: &newer, FullName: "New", Technologies: "Go"},
	}
	require.NoError(t, repo.ReplaceAll(ctx, batch))

	got, err := repo.Recent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "New", got[0].FullName)
	assert.Equal(t, "Go", got[0].Technologies)
	assert.Equal(t, "Old", got[1].FullName)
	assert.Equal(t, "Unknown", got[2].FullName)

	require.NoError(t, repo.ReplaceAll(ctx, batch[:1]))
	got, err = repo.Recent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
