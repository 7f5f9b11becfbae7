package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "data/hackathon.db", cfg.SQLitePath)
	assert.Equal(t, "Data/inscritos_hackathon.csv", cfg.SourcePath)
	assert.InDelta(t, 60.0, cfg.MatchThreshold, 0.0001)
	assert.Equal(t, "indel", cfg.MatchScorer)
	assert.Equal(t, 100, cfg.QueryLimit)
	assert.Nil(t, cfg.TimestampLayouts)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db?sslmode=disable")
	t.Setenv("MATCH_THRESHOLD", "75.5")
	t.Setenv("MATCH_SCORER", "levenshtein")
	t.Setenv("TIMESTAMP_LAYOUTS", "2006-01-02 15:04 ; 02/01/2006")
	t.Setenv("QUERY_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.InDelta(t, 75.5, cfg.MatchThreshold, 0.0001)
	assert.Equal(t, "levenshtein", cfg.MatchScorer)
	assert.Equal(t, []string{"2006-01-02 15:04", "02/01/2006"}, cfg.TimestampLayouts)
	assert.Equal(t, 100, cfg.QueryLimit, "unparsable ints fall back to the default")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "postgres without url",
			env:  map[string]string{"DATABASE_DRIVER": "postgres", "DATABASE_URL": ""},
		},
		{
			name: "unknown driver",
			env:  map[string]string{"DATABASE_DRIVER": "mysql"},
		},
		{
			name: "threshold out of range",
			env:  map[string]string{"DATABASE_DRIVER": "sqlite", "MATCH_THRESHOLD": "140"},
		},
		{
			name: "unknown scorer",
			env:  map[string]string{"DATABASE_DRIVER": "sqlite", "MATCH_SCORER": "jaro"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestValidateExcept_SkipsDatabase(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	cfg := Read()
	require.Error(t, Validate(cfg))
	require.NoError(t, ValidateExcept(cfg, "DatabaseURL", "SQLitePath"))

	cfg.MatchThreshold = -1
	assert.Error(t, ValidateExcept(cfg, "DatabaseURL", "SQLitePath"))
}
