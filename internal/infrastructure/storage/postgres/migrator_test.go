package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations(t *testing.T) {
	files := fstest.MapFS{
		"migrations/0002_more.sql": {Data: []byte("SELECT 2")},
		"migrations/0001_init.sql": {Data: []byte("SELECT 1")},
		"migrations/README.md":     {Data: []byte("notes")},
		"migrations/0003_last.sql": {Data: []byte("SELECT 3")},
	}

	pending, err := PendingMigrations(files, map[string]bool{"0002_more.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0003_last.sql"}, pending)
}

func TestEmbeddedMigrations(t *testing.T) {
	pending, err := PendingMigrations(migrationFiles, nil)
	require.NoError(t, err)
	require.NotEmpty(t, pending)
	assert.Equal(t, "0001_init.sql", pending[0])
}
