package checkers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hackathon/pkg/storage/sqlite"
)

func TestSourceChecker(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "full.csv")
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(full, []byte("a,b\n1,2\n"), 0o600))
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	ctx := context.Background()
	assert.NoError(t, NewSourceChecker(full).Check(ctx))
	assert.Error(t, NewSourceChecker(empty).Check(ctx))
	assert.Error(t, NewSourceChecker(dir).Check(ctx))
	assert.Error(t, NewSourceChecker(filepath.Join(dir, "missing.csv")).Check(ctx))
}

func TestSQLChecker(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "h.db"), sqlite.DefaultConfig())
	require.NoError(t, err)

	c := NewSQLChecker("sqlite", db)
	assert.Equal(t, "sqlite", c.Name())
	assert.NoError(t, c.Check(context.Background()))

	require.NoError(t, db.Close())
	assert.Error(t, c.Check(context.Background()))
}
