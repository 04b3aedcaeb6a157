package bracket

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentOpen       TournamentStatus = "open"
	TournamentInProgress TournamentStatus = "in_progress"
	TournamentClosed     TournamentStatus = "closed"
)

type Tournament struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	OwnerID   uuid.UUID        `db:"owner_id" json:"owner_id"`
	Name      string           `db:"name" json:"name"`
	Date      string           `db:"date" json:"date"`
	MaxTeams  int              `db:"max_teams" json:"max_teams"`
	Status    TournamentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// RoundsFor returns how many rounds a bracket sized for maxTeams has.
// The count depends on capacity only, never on how many teams enrolled.
func RoundsFor(maxTeams int) int {
	if maxTeams <= 1 {
		return 1
	}

	// Log2 -> Ceil to round up, so 5 teams need 3 rounds
	return int(math.Ceil(math.Log2(float64(maxTeams))))
}

// FirstRoundSlots is the number of round 1 matches for the given round count.
func FirstRoundSlots(rounds int) int {
	return 1 << (rounds - 1)
}
