package bracket

import (
	"fmt"
	"time"

	"github.com/AdamBeresnev/tourney-api/internal/utils"
	"github.com/google/uuid"
)

type Match struct {
	ID           string    `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`

	// Position in the bracket, feeders and next match are derived from these
	Round       int `db:"round" json:"round"`
	MatchNumber int `db:"match_number" json:"match_number"`

	Team1ID *uuid.UUID `db:"team1_id" json:"team1_id"`
	Team2ID *uuid.UUID `db:"team2_id" json:"team2_id"`

	Team1Score *int `db:"team1_score" json:"team1_score"`
	Team2Score *int `db:"team2_score" json:"team2_score"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MatchID builds the readable identifier of a bracket slot.
func MatchID(tournamentID uuid.UUID, round, matchNumber int) string {
	return fmt.Sprintf("%s-r%d-m%d", tournamentID, round, matchNumber)
}

func (m *Match) TeamCount() int {
	n := 0
	if m.Team1ID != nil {
		n++
	}
	if m.Team2ID != nil {
		n++
	}
	return n
}

// Decided reports whether both scores are recorded. Walkovers and dead slots
// get their scores written as soon as they become decidable.
func (m *Match) Decided() bool {
	return m.Team1Score != nil && m.Team2Score != nil
}

func (m *Match) HasTeam(teamID uuid.UUID) bool {
	return utils.PtrEqual(m.Team1ID, &teamID) || utils.PtrEqual(m.Team2ID, &teamID)
}

// Winner returns the team that won a decided match, nil for dead slots.
func (m *Match) Winner() *uuid.UUID {
	if !m.Decided() {
		return nil
	}
	switch {
	case m.Team1ID != nil && m.Team2ID != nil:
		if *m.Team1Score > *m.Team2Score {
			return m.Team1ID
		}
		if *m.Team2Score > *m.Team1Score {
			return m.Team2ID
		}
		return nil
	case m.Team1ID != nil:
		return m.Team1ID
	default:
		return m.Team2ID
	}
}

// Loser is only defined for a decided match played between two teams.
func (m *Match) Loser() *uuid.UUID {
	winner := m.Winner()
	if winner == nil || m.TeamCount() != 2 {
		return nil
	}
	if *winner == *m.Team1ID {
		return m.Team2ID
	}
	return m.Team1ID
}
