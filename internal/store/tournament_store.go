package store

import (
	"context"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, owner_id, name, date, max_teams, status, created_at)
        VALUES (:id, :owner_id, :name, :date, :max_teams, :status, :created_at)`, tournament)
	return errors.Wrap(err, "failed to create tournament")
}

func (s *TournamentStore) UpdateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	res, err := tx.NamedExecContext(ctx, `UPDATE tournaments SET name = :name, date = :date, max_teams = :max_teams
		WHERE id = :id`, tournament)
	if err != nil {
		return errors.Wrap(err, "failed to update tournament")
	}
	return affectedOne(res, "tournament")
}

func (s *TournamentStore) UpdateStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status bracket.TournamentStatus) error {
	res, err := tx.ExecContext(ctx, tx.Rebind("UPDATE tournaments SET status = ? WHERE id = ?"), status, id)
	if err != nil {
		return errors.Wrap(err, "failed to update tournament status")
	}
	return affectedOne(res, "tournament")
}

func (s *TournamentStore) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM tournaments WHERE id = ?"), id)
	if err != nil {
		return errors.Wrap(err, "failed to delete tournament")
	}
	return affectedOne(res, "tournament")
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := s.db.GetContext(ctx, &tournament, s.db.Rebind("SELECT * FROM tournaments WHERE id = ?"), id)
	if err != nil {
		return nil, getErr(err, "tournament")
	}
	return &tournament, nil
}

// ListTournaments returns every tournament, newest first, optionally
// filtered by status.
func (s *TournamentStore) ListTournaments(ctx context.Context, status *bracket.TournamentStatus) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	var err error
	if status != nil {
		err = s.db.SelectContext(ctx, &tournaments,
			s.db.Rebind("SELECT * FROM tournaments WHERE status = ? ORDER BY created_at DESC"), *status)
	} else {
		err = s.db.SelectContext(ctx, &tournaments, "SELECT * FROM tournaments ORDER BY created_at DESC")
	}
	return tournaments, errors.Wrap(err, "failed to list tournaments")
}

// EnrollTeam appends the team to the enrollment order of the tournament.
func (s *TournamentStore) EnrollTeam(ctx context.Context, tx *sqlx.Tx, tournamentID, teamID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO tournament_teams (tournament_id, team_id, seq)
		SELECT ?, ?, COALESCE(MAX(seq), 0) + 1 FROM tournament_teams WHERE tournament_id = ?`),
		tournamentID, teamID, tournamentID)
	return errors.Wrap(err, "failed to enroll team")
}

func (s *TournamentStore) WithdrawTeam(ctx context.Context, tx *sqlx.Tx, tournamentID, teamID uuid.UUID) error {
	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM tournament_teams WHERE tournament_id = ? AND team_id = ?"),
		tournamentID, teamID)
	if err != nil {
		return errors.Wrap(err, "failed to withdraw team")
	}
	return affectedOne(res, "enrollment")
}

func (s *TournamentStore) IsEnrolled(ctx context.Context, tournamentID, teamID uuid.UUID) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind("SELECT COUNT(*) FROM tournament_teams WHERE tournament_id = ? AND team_id = ?"),
		tournamentID, teamID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check enrollment")
	}
	return n > 0, nil
}

func (s *TournamentStore) CountTeams(ctx context.Context, tournamentID uuid.UUID) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind("SELECT COUNT(*) FROM tournament_teams WHERE tournament_id = ?"), tournamentID)
	return n, errors.Wrap(err, "failed to count teams")
}

// GetTeams returns the enrolled teams in enrollment order.
func (s *TournamentStore) GetTeams(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Team, error) {
	var teams []bracket.Team
	err := s.db.SelectContext(ctx, &teams, s.db.Rebind(`
		SELECT t.* FROM teams t
		JOIN tournament_teams tt ON tt.team_id = t.id
		WHERE tt.tournament_id = ?
		ORDER BY tt.seq ASC`), tournamentID)
	return teams, errors.Wrap(err, "failed to get tournament teams")
}

func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO matches (id, tournament_id, round, match_number, team1_id, team2_id, team1_score, team2_score, created_at)
		VALUES (:id, :tournament_id, :round, :match_number, :team1_id, :team2_id, :team1_score, :team2_score, :created_at)`, matches)
	return errors.Wrap(err, "failed to create matches")
}

// UpdateMatches writes the teams and scores of already materialized matches.
func (s *TournamentStore) UpdateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	for _, m := range matches {
		res, err := tx.NamedExecContext(ctx, `UPDATE matches SET
			team1_id = :team1_id,
			team2_id = :team2_id,
			team1_score = :team1_score,
			team2_score = :team2_score
			WHERE id = :id`, m)
		if err != nil {
			return errors.Wrapf(err, "failed to update match %s", m.ID)
		}
		if err := affectedOne(res, "match "+m.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TournamentStore) GetMatch(ctx context.Context, id string) (*bracket.Match, error) {
	var match bracket.Match
	err := s.db.GetContext(ctx, &match, s.db.Rebind("SELECT * FROM matches WHERE id = ?"), id)
	if err != nil {
		return nil, getErr(err, "match")
	}
	return &match, nil
}

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches, s.db.Rebind("SELECT * FROM matches WHERE tournament_id = ? ORDER BY round ASC, match_number ASC"), tournamentID)
	return matches, errors.Wrap(err, "failed to get matches")
}

func (s *TournamentStore) CountMatches(ctx context.Context, tournamentID uuid.UUID) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind("SELECT COUNT(*) FROM matches WHERE tournament_id = ?"), tournamentID)
	return n, errors.Wrap(err, "failed to count matches")
}

// GetMatchesForUser lists matches played by teams the user owns or plays on,
// newest tournament first.
func (s *TournamentStore) GetMatchesForUser(ctx context.Context, userID uuid.UUID) ([]bracket.UserMatch, error) {
	var matches []bracket.UserMatch
	err := s.db.SelectContext(ctx, &matches, s.db.Rebind(`
		SELECT
			m.id AS match_id,
			m.tournament_id,
			tr.name AS tournament_name,
			tr.date AS tournament_date,
			m.round,
			m.match_number,
			own.id AS team_id,
			own.name AS team_name,
			CASE WHEN m.team1_id = own.id THEN m.team1_score ELSE m.team2_score END AS team_score,
			opp.id AS opponent_id,
			opp.name AS opponent_name,
			CASE WHEN m.team1_id = own.id THEN m.team2_score ELSE m.team1_score END AS opponent_score
		FROM matches m
		JOIN tournaments tr ON tr.id = m.tournament_id
		JOIN teams own ON own.id = m.team1_id OR own.id = m.team2_id
		LEFT JOIN teams opp ON opp.id = CASE WHEN m.team1_id = own.id THEN m.team2_id ELSE m.team1_id END
		WHERE own.owner_id = ?
		OR own.id IN (SELECT team_id FROM players WHERE user_id = ? AND status = ?)
		ORDER BY tr.created_at DESC, m.round ASC, m.match_number ASC`), userID, userID, bracket.PlayerActive)
	return matches, errors.Wrap(err, "failed to get user matches")
}
