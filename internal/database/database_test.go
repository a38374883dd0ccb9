package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"players", "matches", "metrics"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_PlayerNamesAreUniqueIgnoringCase(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "")
	require.NoError(t, err)
	defer teardown()

	insert := `INSERT INTO players (id, name, pin_hash, pin_salt, created_at, updated_at) VALUES (?, ?, 'h', 's', 0, 0)`
	_, err = db.Exec(insert, "p1", "Alice")
	require.NoError(t, err)
	_, err = db.Exec(insert, "p2", "ALICE")
	assert.Error(t, err)
}

func TestInitDB_IsIdempotent(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "")
	require.NoError(t, err)
	defer teardown()

	require.NoError(t, migrate(db, "sqlite3", ""))
}
