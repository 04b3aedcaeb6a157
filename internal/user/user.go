package users

import (
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const UserKey ContextKey = "user"

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	Provider     *string   `db:"provider" json:"provider,omitempty"`
	ProviderID   *string   `db:"provider_id" json:"-"`
	AvatarURL    *string   `db:"avatar_url" json:"avatar_url"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Public is the view of a user that other users may see.
type Public struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url"`
}

func (u *User) Public() Public {
	return Public{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}
