package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TeamInvitation     Type = "team_invitation"
	InvitationResponse Type = "invitation_response"
)

// Payload is an opaque JSON object stored as text.
type Payload string

func (p Payload) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("{}"), nil
	}
	return []byte(p), nil
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	*p = Payload(data)
	return nil
}

type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Type      Type      `db:"type" json:"type"`
	Content   string    `db:"content" json:"content"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	Data      Payload   `db:"data" json:"data"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
