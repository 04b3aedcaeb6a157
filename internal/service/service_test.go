package service

import (
	"context"
	"testing"
	"time"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/AdamBeresnev/tourney-api/internal/db"
	"github.com/AdamBeresnev/tourney-api/internal/store"
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
	t.Cleanup(func() { database.Close() })
	return database
}

type services struct {
	db            *sqlx.DB
	tournaments   *TournamentService
	matches       *MatchService
	teams         *TeamService
	users         *UserService
	rankings      *RankingService
	notifications *NotificationService

	teamStore *store.TeamStore
}

func newServices(t *testing.T) *services {
	t.Helper()

	database := setupTestDB(t)
	tournamentStore := store.NewTournamentStore(database)
	teamStore := store.NewTeamStore(database)
	userStore := store.NewUserStore(database)
	notifications := NewNotificationService(store.NewNotificationStore(database))
	locks := NewTournamentLocks()

	return &services{
		db:            database,
		tournaments:   NewTournamentService(database, tournamentStore, locks),
		matches:       NewMatchService(database, tournamentStore, teamStore, locks),
		teams:         NewTeamService(database, teamStore, userStore, notifications),
		users:         NewUserService(database, userStore, tournamentStore),
		rankings:      NewRankingService(teamStore),
		notifications: notifications,
		teamStore:     teamStore,
	}
}

func (s *services) user(t *testing.T, username string) *users.User {
	t.Helper()

	user, err := s.users.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return user
}

func (s *services) team(t *testing.T, owner *users.User, name string) *bracket.Team {
	t.Helper()

	data, err := s.teams.CreateTeam(context.Background(), owner, name)
	require.NoError(t, err)
	return data.Team
}

// tournament creates an open tournament and enrolls teams in the given order.
func (s *services) tournament(t *testing.T, owner *users.User, maxTeams int, teams ...*bracket.Team) *bracket.Tournament {
	t.Helper()
	ctx := context.Background()

	tournament, err := s.tournaments.CreateTournament(ctx, owner.ID, TournamentInput{
		Name:     "Cup " + time.Now().Format(time.RFC3339Nano),
		Date:     "2026-06-01",
		MaxTeams: maxTeams,
	})
	require.NoError(t, err)

	for _, team := range teams {
		require.NoError(t, s.tournaments.JoinTournament(ctx, tournament.ID, team.ID))
	}
	return tournament
}

func (s *services) reloadTeam(t *testing.T, id uuid.UUID) *bracket.Team {
	t.Helper()

	team, err := s.teamStore.GetTeam(context.Background(), id)
	require.NoError(t, err)
	return team
}
