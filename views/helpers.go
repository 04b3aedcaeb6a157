package views

import (
	"context"
	"strconv"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/AdamBeresnev/tourney-api/internal/middleware"
	users "github.com/AdamBeresnev/tourney-api/internal/user"
	"github.com/AdamBeresnev/tourney-api/internal/utils"
	"github.com/google/uuid"
)

func GetUser(ctx context.Context) *users.User {
	return middleware.GetAuthenticatedUser(ctx)
}

func scoreText(score *int) string {
	if score == nil {
		return "-"
	}
	return strconv.Itoa(*score)
}

func statusLabel(status bracket.TournamentStatus) string {
	switch status {
	case bracket.TournamentOpen:
		return "Open for registration"
	case bracket.TournamentInProgress:
		return "In progress"
	case bracket.TournamentClosed:
		return "Finished"
	default:
		return string(status)
	}
}

// statusLine is the subtitle under the tournament name.
func statusLine(t *bracket.Tournament) string {
	if t.Date == "" {
		return statusLabel(t.Status)
	}
	return statusLabel(t.Status) + " · " + t.Date
}

func isWinner(m *bracket.Match, teamID *uuid.UUID) bool {
	winner := m.Winner()
	return winner != nil && utils.PtrEqual(winner, teamID)
}

// slotName shows "Bye" for a slot that stayed empty in a decided match.
func slotName(data BracketData, m *bracket.Match, teamID *uuid.UUID) string {
	if teamID == nil && m.Decided() {
		return "Bye"
	}
	return data.TeamName(teamID)
}
