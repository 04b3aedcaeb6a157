package store

import (
	"context"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TeamStore struct {
	db *sqlx.DB
}

func NewTeamStore(db *sqlx.DB) *TeamStore {
	return &TeamStore{db: db}
}

func (s *TeamStore) CreateTeam(ctx context.Context, tx *sqlx.Tx, team *bracket.Team) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO teams (id, owner_id, name, wins, losses, tournaments_won, created_at)
		VALUES (:id, :owner_id, :name, :wins, :losses, :tournaments_won, :created_at)`, team)
	return errors.Wrap(err, "failed to create team")
}

func (s *TeamStore) RenameTeam(ctx context.Context, id uuid.UUID, name string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE teams SET name = ? WHERE id = ?"), name, id)
	if err != nil {
		return errors.Wrap(err, "failed to rename team")
	}
	return affectedOne(res, "team")
}

func (s *TeamStore) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM teams WHERE id = ?"), id)
	if err != nil {
		return errors.Wrap(err, "failed to delete team")
	}
	return affectedOne(res, "team")
}

func (s *TeamStore) GetTeam(ctx context.Context, id uuid.UUID) (*bracket.Team, error) {
	var team bracket.Team
	err := s.db.GetContext(ctx, &team, s.db.Rebind("SELECT * FROM teams WHERE id = ?"), id)
	if err != nil {
		return nil, getErr(err, "team")
	}
	return &team, nil
}

func (s *TeamStore) ListTeams(ctx context.Context) ([]bracket.Team, error) {
	var teams []bracket.Team
	err := s.db.SelectContext(ctx, &teams, "SELECT * FROM teams ORDER BY name ASC")
	return teams, errors.Wrap(err, "failed to list teams")
}

// GetTeamsForUser returns teams the user owns or plays for as an active player.
func (s *TeamStore) GetTeamsForUser(ctx context.Context, userID uuid.UUID) ([]bracket.Team, error) {
	var teams []bracket.Team
	err := s.db.SelectContext(ctx, &teams, s.db.Rebind(`
		SELECT * FROM teams
		WHERE owner_id = ?
		OR id IN (SELECT team_id FROM players WHERE user_id = ? AND status = ?)
		ORDER BY name ASC`), userID, userID, bracket.PlayerActive)
	return teams, errors.Wrap(err, "failed to get user teams")
}

func (s *TeamStore) CreatePlayer(ctx context.Context, tx *sqlx.Tx, player *bracket.Player) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO players (id, team_id, user_id, name, is_starter, status, wins, created_at)
		VALUES (:id, :team_id, :user_id, :name, :is_starter, :status, :wins, :created_at)`, player)
	return errors.Wrap(err, "failed to create player")
}

func (s *TeamStore) UpdatePlayer(ctx context.Context, player *bracket.Player) error {
	res, err := s.db.NamedExecContext(ctx, `UPDATE players SET name = :name, is_starter = :is_starter
		WHERE id = :id AND team_id = :team_id`, player)
	if err != nil {
		return errors.Wrap(err, "failed to update player")
	}
	return affectedOne(res, "player")
}

func (s *TeamStore) SetPlayerStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status bracket.PlayerStatus) error {
	res, err := tx.ExecContext(ctx, tx.Rebind("UPDATE players SET status = ? WHERE id = ?"), status, id)
	if err != nil {
		return errors.Wrap(err, "failed to update player status")
	}
	return affectedOne(res, "player")
}

func (s *TeamStore) DeletePlayer(ctx context.Context, teamID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM players WHERE id = ? AND team_id = ?"), id, teamID)
	if err != nil {
		return errors.Wrap(err, "failed to delete player")
	}
	return affectedOne(res, "player")
}

func (s *TeamStore) GetPlayer(ctx context.Context, id uuid.UUID) (*bracket.Player, error) {
	var player bracket.Player
	err := s.db.GetContext(ctx, &player, s.db.Rebind("SELECT * FROM players WHERE id = ?"), id)
	if err != nil {
		return nil, getErr(err, "player")
	}
	return &player, nil
}

func (s *TeamStore) GetPlayers(ctx context.Context, teamID uuid.UUID) ([]bracket.Player, error) {
	var players []bracket.Player
	err := s.db.SelectContext(ctx, &players, s.db.Rebind(`SELECT * FROM players WHERE team_id = ?
		ORDER BY is_starter DESC, created_at ASC`), teamID)
	return players, errors.Wrap(err, "failed to get players")
}

// HasMembership reports whether the user already has a pending or active
// player row on the team.
func (s *TeamStore) HasMembership(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM players
		WHERE team_id = ? AND user_id = ? AND status IN (?, ?)`), teamID, userID, bracket.PlayerActive, bracket.PlayerPending)
	if err != nil {
		return false, errors.Wrap(err, "failed to check membership")
	}
	return n > 0, nil
}

// AddResults adds to the win, loss and title counters of a team. Wins are
// credited to its active players as well.
func (s *TeamStore) AddResults(ctx context.Context, tx *sqlx.Tx, teamID uuid.UUID, wins, losses, titles int) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE teams SET
		wins = wins + ?,
		losses = losses + ?,
		tournaments_won = tournaments_won + ?
		WHERE id = ?`), wins, losses, titles, teamID)
	if err != nil {
		return errors.Wrap(err, "failed to update team counters")
	}
	if wins == 0 {
		return nil
	}

	_, err = tx.ExecContext(ctx, tx.Rebind("UPDATE players SET wins = wins + ? WHERE team_id = ? AND status = ?"),
		wins, teamID, bracket.PlayerActive)
	return errors.Wrap(err, "failed to update player wins")
}

func (s *TeamStore) TeamRankings(ctx context.Context) ([]bracket.TeamRanking, error) {
	var rankings []bracket.TeamRanking
	err := s.db.SelectContext(ctx, &rankings, `SELECT id, name, wins, losses, tournaments_won FROM teams
		ORDER BY wins DESC, tournaments_won DESC, name ASC`)
	return rankings, errors.Wrap(err, "failed to get team rankings")
}

func (s *TeamStore) PlayerRankings(ctx context.Context, limit int) ([]bracket.PlayerRanking, error) {
	var rankings []bracket.PlayerRanking
	err := s.db.SelectContext(ctx, &rankings, s.db.Rebind(`
		SELECT p.id, p.name, p.team_id, t.name AS team_name, p.wins
		FROM players p
		JOIN teams t ON t.id = p.team_id
		ORDER BY p.wins DESC, p.name ASC
		LIMIT ?`), limit)
	return rankings, errors.Wrap(err, "failed to get player rankings")
}
