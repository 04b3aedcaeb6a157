package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/AdamBeresnev/tourney-api/internal/store"
	users "github.com/AdamBeresnev/tourney-api/internal/user"
	"github.com/AdamBeresnev/tourney-api/internal/utils"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/markbates/goth"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db          *sqlx.DB
	store       *store.UserStore
	tournaments *store.TournamentStore
}

func NewUserService(db *sqlx.DB, store *store.UserStore, tournaments *store.TournamentStore) *UserService {
	return &UserService{db: db, store: store, tournaments: tournaments}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type ProfileUpdate struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=32"`
	Email     *string `json:"email" validate:"omitempty,email"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

var ErrInvalidCredentials = errors.New("invalid username or password")

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*users.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.ensureAvailable(ctx, uuid.Nil, username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &users.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: utils.Ptr(string(hash)),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username or email against the stored hash.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*users.User, error) {
	login = strings.TrimSpace(login)
	user, err := s.store.GetUserByUsername(ctx, login)
	if errors.Is(err, bracket.ErrNotFound) {
		user, err = s.store.GetUserByEmail(ctx, strings.ToLower(login))
	}
	if errors.Is(err, bracket.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) FindOrCreateUserByProvider(ctx context.Context, gothUser goth.User) (*users.User, error) {
	user, err := s.store.GetUserByProvider(ctx, gothUser.Provider, gothUser.UserID)

	if err == nil {
		if utils.OrZero(user.AvatarURL) != gothUser.AvatarURL {
			user.AvatarURL = utils.StringOrNil(gothUser.AvatarURL)
			if err := s.store.UpdateAvatar(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	if !errors.Is(err, bracket.ErrNotFound) {
		return nil, err
	}

	username, err := s.freeUsername(ctx, firstNonEmpty(gothUser.NickName, gothUser.Name, gothUser.Provider+"-"+gothUser.UserID))
	if err != nil {
		return nil, err
	}

	newUser := &users.User{
		ID:         uuid.New(),
		Email:      strings.ToLower(gothUser.Email),
		Username:   username,
		Provider:   utils.Ptr(gothUser.Provider),
		ProviderID: utils.Ptr(gothUser.UserID),
		AvatarURL:  utils.StringOrNil(gothUser.AvatarURL),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

// freeUsername appends a counter until the name is unused.
func (s *UserService) freeUsername(ctx context.Context, base string) (string, error) {
	base = strings.TrimSpace(base)
	candidate := base
	for i := 2; ; i++ {
		taken, err := s.store.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]users.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *UserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.store.UsernameExists(ctx, strings.TrimSpace(username))
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*users.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	username, email := user.Username, user.Email
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if err := s.ensureAvailable(ctx, user.ID, username, email); err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	if in.AvatarURL != nil {
		user.AvatarURL = utils.StringOrNil(*in.AvatarURL)
	}

	if err := s.store.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserMatches(ctx context.Context, id uuid.UUID) ([]bracket.UserMatch, error) {
	if _, err := s.store.GetUser(ctx, id); err != nil {
		return nil, err
	}
	return s.tournaments.GetMatchesForUser(ctx, id)
}

// ensureAvailable rejects a username or email held by a different user.
func (s *UserService) ensureAvailable(ctx context.Context, self uuid.UUID, username, email string) error {
	if username == "" {
		return errors.Wrap(bracket.ErrValidation, "username is required")
	}

	existing, err := s.store.GetUserByUsername(ctx, username)
	switch {
	case err == nil && existing.ID != self:
		return errors.Wrapf(bracket.ErrConflict, "username %q is taken", username)
	case err != nil && !errors.Is(err, bracket.ErrNotFound):
		return err
	}

	if email == "" {
		return nil
	}
	existing, err = s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != self:
		return errors.Wrapf(bracket.ErrConflict, "email %q is already registered", email)
	case err != nil && !errors.Is(err, bracket.ErrNotFound):
		return err
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
