package store

import (
	"context"

	users "github.com/AdamBeresnev/tourney-api/internal/user"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserStore struct {
	db *sqlx.DB
}

const (
	getUserQuery           = "SELECT * FROM users WHERE id = ?"
	getUserByUsernameQuery = "SELECT * FROM users WHERE username = ?"
	getUserByEmailQuery    = "SELECT * FROM users WHERE email = ? AND email <> ''"
	getUserByProviderQuery = `
        SELECT * FROM users
        WHERE provider = ?
        AND provider_id = ?
    `
	listUsersQuery      = "SELECT * FROM users ORDER BY username ASC"
	usernameExistsQuery = "SELECT COUNT(*) FROM users WHERE username = ?"
	createUserQuery     = `
		INSERT INTO users (id, email, username, password_hash, provider, provider_id, avatar_url, is_admin, created_at) VALUES
		(:id, :email, :username, :password_hash, :provider, :provider_id, :avatar_url, :is_admin, :created_at)
	`
	updateProfileQuery = `
		UPDATE users SET
		username = :username,
		email = :email,
		avatar_url = :avatar_url
		WHERE id = :id
	`
	updateAvatarQuery = "UPDATE users SET avatar_url = :avatar_url WHERE id = :id"
)

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUserByProvider(ctx context.Context, provider string, providerID string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, s.db.Rebind(getUserByProviderQuery), provider, providerID)
	if err != nil {
		return nil, getErr(err, "user")
	}

	return &user, nil
}

func (s *UserStore) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, s.db.Rebind(getUserQuery), id)
	if err != nil {
		return nil, getErr(err, "user")
	}
	return &user, nil
}

func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, s.db.Rebind(getUserByUsernameQuery), username)
	if err != nil {
		return nil, getErr(err, "user")
	}
	return &user, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, s.db.Rebind(getUserByEmailQuery), email)
	if err != nil {
		return nil, getErr(err, "user")
	}
	return &user, nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]users.User, error) {
	var list []users.User
	if err := s.db.SelectContext(ctx, &list, listUsersQuery); err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return list, nil
}

func (s *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(usernameExistsQuery), username); err != nil {
		return false, errors.Wrap(err, "failed to check username")
	}
	return n > 0, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, createUserQuery, user)
	return errors.Wrap(err, "failed to create user")
}

func (s *UserStore) UpdateProfile(ctx context.Context, user *users.User) error {
	res, err := s.db.NamedExecContext(ctx, updateProfileQuery, user)
	if err != nil {
		return errors.Wrap(err, "failed to update user")
	}
	return affectedOne(res, "user")
}

func (s *UserStore) UpdateAvatar(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, updateAvatarQuery, user)
	return errors.Wrap(err, "failed to update avatar")
}
