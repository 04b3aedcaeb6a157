package store

import (
	"context"
	"testing"
	"time"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/AdamBeresnev/tourney-api/internal/db"
	users "github.com/AdamBeresnev/tourney-api/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", db.SQLiteDSN("file::memory:"))
	require.NoError(t, err, "Failed to connect to in-memory DB")
	database.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(database), "Failed to apply migrations")
	return database
}

func withTx(t *testing.T, database *sqlx.DB, fn func(tx *sqlx.Tx) error) {
	t.Helper()

	tx, err := database.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	require.NoError(t, fn(tx))
	require.NoError(t, tx.Commit())
}

func seedUser(t *testing.T, database *sqlx.DB, username string) *users.User {
	t.Helper()

	user := &users.User{
		ID:        uuid.New(),
		Email:     username + "@example.com",
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, NewUserStore(database).CreateUser(context.Background(), user))
	return user
}

func seedTeam(t *testing.T, database *sqlx.DB, ownerID uuid.UUID, name string) *bracket.Team {
	t.Helper()

	team := &bracket.Team{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	withTx(t, database, func(tx *sqlx.Tx) error {
		return NewTeamStore(database).CreateTeam(context.Background(), tx, team)
	})
	return team
}

func seedTournament(t *testing.T, database *sqlx.DB, ownerID uuid.UUID, maxTeams int) *bracket.Tournament {
	t.Helper()

	tournament := &bracket.Tournament{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      "Test Tournament",
		Date:      "2026-05-01",
		MaxTeams:  maxTeams,
		Status:    bracket.TournamentOpen,
		CreatedAt: time.Now().UTC(),
	}
	withTx(t, database, func(tx *sqlx.Tx) error {
		return NewTournamentStore(database).CreateTournament(context.Background(), tx, tournament)
	})
	return tournament
}
