package repository

import (
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttemptRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewAttemptRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewSeatReleaseRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewSeatReleaseRepository(pool)
	assert.NotNil(t, repo)
}

func TestMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrations, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrations, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.Len(t, ups, 3)
	assert.Len(t, downs, len(ups))
}

func TestMigrate_RejectsUnknownScheme(t *testing.T) {
	err := Migrate("nosuchdb://localhost/preserve")
	assert.Error(t, err)
}
