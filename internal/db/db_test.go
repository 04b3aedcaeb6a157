package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/AdamBeresnev/tourney-api/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	database, err := InitDB(&config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseURL:    "file::memory:",
	})
	require.NoError(t, err)
	defer database.Close()
	database.SetMaxOpenConns(1)

	require.NoError(t, RunMigrations(database))
	// a second run finds nothing to do
	require.NoError(t, RunMigrations(database))

	var tables []string
	err = database.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'schema_%' ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, []string{"matches", "notifications", "players", "sessions", "teams", "tournament_teams", "tournaments", "users"}, tables)
}

func TestSQLiteDSN(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"tourney.db", "tourney.db?_foreign_keys=on"},
		{"tourney.db?_journal_mode=WAL", "tourney.db?_journal_mode=WAL&_foreign_keys=on"},
		{"tourney.db?_fk=1", "tourney.db?_fk=1"},
		{"tourney.db?_foreign_keys=off", "tourney.db?_foreign_keys=off"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, SQLiteDSN(tc.in))
	}
}

// Every pooled connection must enforce foreign keys, otherwise cascades
// only fire on whichever connection happened to be configured.
func TestForeignKeysOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	database, err := InitDB(&config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseURL:    filepath.Join(t.TempDir(), "tourney.db") + "?_journal_mode=WAL",
	})
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, RunMigrations(database))

	conn1, err := database.Connx(ctx)
	require.NoError(t, err)
	defer conn1.Close()
	conn2, err := database.Connx(ctx)
	require.NoError(t, err)
	defer conn2.Close()

	for i, conn := range []interface {
		GetContext(ctx context.Context, dest any, query string, args ...any) error
	}{conn1, conn2} {
		var enabled int
		require.NoError(t, conn.GetContext(ctx, &enabled, "PRAGMA foreign_keys"))
		assert.Equal(t, 1, enabled, "connection %d", i+1)
	}

	userID, teamID, tournamentID := uuid.NewString(), uuid.NewString(), uuid.NewString()
	for _, stmt := range []struct {
		query string
		args  []any
	}{
		{"INSERT INTO users (id, username) VALUES (?, ?)", []any{userID, "owner"}},
		{"INSERT INTO teams (id, owner_id, name) VALUES (?, ?, ?)", []any{teamID, userID, "Ghosts"}},
		{"INSERT INTO tournaments (id, owner_id, name, max_teams) VALUES (?, ?, ?, ?)", []any{tournamentID, userID, "Cup", 2}},
		{"INSERT INTO tournament_teams (tournament_id, team_id, seq) VALUES (?, ?, 1)", []any{tournamentID, teamID}},
	} {
		_, err := conn2.ExecContext(ctx, stmt.query, stmt.args...)
		require.NoError(t, err)
	}

	_, err = conn2.ExecContext(ctx, "DELETE FROM teams WHERE id = ?", teamID)
	require.NoError(t, err)

	var enrolled int
	require.NoError(t, conn2.GetContext(ctx, &enrolled, "SELECT COUNT(*) FROM tournament_teams WHERE tournament_id = ?", tournamentID))
	assert.Zero(t, enrolled)
}
