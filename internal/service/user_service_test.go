package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/AdamBeresnev/tourney-api/internal/utils"
	"github.com/cockroachdb/errors"
	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	user := s.user(t, "player1")
	assert.NotNil(t, user.PasswordHash)

	byName, err := s.users.Authenticate(ctx, "player1", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := s.users.Authenticate(ctx, "PLAYER1@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = s.users.Authenticate(ctx, "player1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.users.Authenticate(ctx, "nobody", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterConflicts(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	s.user(t, "player1")

	testCases := []struct {
		name  string
		input RegisterInput
	}{
		{name: "username taken", input: RegisterInput{Username: "player1", Email: "other@example.com", Password: "long enough"}},
		{name: "email taken", input: RegisterInput{Username: "player2", Email: "player1@example.com", Password: "long enough"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.users.Register(ctx, tc.input)
			assert.True(t, errors.Is(err, bracket.ErrConflict))
		})
	}
}

func TestFindOrCreateUserByProvider(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	s.user(t, "gamer")

	gothUser := goth.User{
		Provider:  "discord",
		UserID:    "42",
		NickName:  "gamer",
		Email:     "Gamer@Discord.example",
		AvatarURL: "https://cdn.example.com/1.png",
	}

	created, err := s.users.FindOrCreateUserByProvider(ctx, gothUser)
	require.NoError(t, err)
	assert.Equal(t, "gamer-2", created.Username)
	assert.Equal(t, "gamer@discord.example", created.Email)
	assert.Nil(t, created.PasswordHash)

	gothUser.AvatarURL = "https://cdn.example.com/2.png"
	again, err := s.users.FindOrCreateUserByProvider(ctx, gothUser)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "https://cdn.example.com/2.png", *again.AvatarURL)

	// OAuth accounts have no password to check
	_, err = s.users.Authenticate(ctx, "gamer-2", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	user := s.user(t, "player1")
	s.user(t, "player2")

	_, err := s.users.UpdateProfile(ctx, user.ID, ProfileUpdate{Username: utils.Ptr("player2")})
	assert.True(t, errors.Is(err, bracket.ErrConflict))

	updated, err := s.users.UpdateProfile(ctx, user.ID, ProfileUpdate{
		Username:  utils.Ptr("renamed"),
		AvatarURL: utils.Ptr("https://cdn.example.com/me.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Username)
	assert.Equal(t, "player1@example.com", updated.Email)

	exists, err := s.users.UsernameExists(ctx, "player1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserMatches(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := s.user(t, "organizer")
	a := s.team(t, owner, "A")
	b := s.team(t, owner, "B")
	tournament := s.tournament(t, owner, 2, a, b)
	_, _, err := s.matches.StartTournament(ctx, tournament.ID)
	require.NoError(t, err)

	rival := s.user(t, "rival")
	rivalTeams, err := s.users.GetUserMatches(ctx, rival.ID)
	require.NoError(t, err)
	assert.Empty(t, rivalTeams)

	matches, err := s.users.GetUserMatches(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	assert.Equal(t, tournament.Name, matches[0].TournamentName)
}
