package ragzy

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS(t *testing.T) {
	sub, err := fs.Sub(MigrationsFS, "migrations")
	require.NoError(t, err)

	entries, err := fs.ReadDir(sub, ".")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"000001_chat_state.down.sql", "000001_chat_state.up.sql"}, names)

	up, err := fs.ReadFile(sub, "000001_chat_state.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "PRIMARY KEY (chat_id, key)")
}
