package bracket

import "github.com/google/uuid"

const PointsPerWin = 3

type TeamRanking struct {
	TeamID         uuid.UUID `db:"id" json:"team_id"`
	Name           string    `db:"name" json:"name"`
	Wins           int       `db:"wins" json:"wins"`
	Losses         int       `db:"losses" json:"losses"`
	TournamentsWon int       `db:"tournaments_won" json:"tournaments_won"`
	Points         int       `db:"-" json:"points"`
}

type PlayerRanking struct {
	PlayerID uuid.UUID `db:"id" json:"player_id"`
	Name     string    `db:"name" json:"name"`
	TeamID   uuid.UUID `db:"team_id" json:"team_id"`
	TeamName string    `db:"team_name" json:"team_name"`
	Wins     int       `db:"wins" json:"wins"`
}

// UserMatch is a match seen from the side of one of the user's teams.
type UserMatch struct {
	MatchID        string     `db:"match_id" json:"match_id"`
	TournamentID   uuid.UUID  `db:"tournament_id" json:"tournament_id"`
	TournamentName string     `db:"tournament_name" json:"tournament_name"`
	TournamentDate string     `db:"tournament_date" json:"tournament_date"`
	Round          int        `db:"round" json:"round"`
	MatchNumber    int        `db:"match_number" json:"match_number"`
	TeamID         uuid.UUID  `db:"team_id" json:"team_id"`
	TeamName       string     `db:"team_name" json:"team_name"`
	TeamScore      *int       `db:"team_score" json:"team_score"`
	OpponentID     *uuid.UUID `db:"opponent_id" json:"opponent_id"`
	OpponentName   *string    `db:"opponent_name" json:"opponent_name"`
	OpponentScore  *int       `db:"opponent_score" json:"opponent_score"`
}
