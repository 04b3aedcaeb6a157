package bracket

import (
	"time"

	"github.com/google/uuid"
)

type PlayerStatus string

const (
	PlayerActive   PlayerStatus = "active"
	PlayerPending  PlayerStatus = "pending"
	PlayerDeclined PlayerStatus = "declined"
)

type Team struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OwnerID        uuid.UUID `db:"owner_id" json:"owner_id"`
	Name           string    `db:"name" json:"name"`
	Wins           int       `db:"wins" json:"wins"`
	Losses         int       `db:"losses" json:"losses"`
	TournamentsWon int       `db:"tournaments_won" json:"tournaments_won"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Player struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	TeamID    uuid.UUID    `db:"team_id" json:"team_id"`
	UserID    *uuid.UUID   `db:"user_id" json:"user_id,omitempty"`
	Name      string       `db:"name" json:"name"`
	IsStarter bool         `db:"is_starter" json:"is_starter"`
	Status    PlayerStatus `db:"status" json:"status"`
	Wins      int          `db:"wins" json:"wins"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
