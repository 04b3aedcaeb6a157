package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/AdamBeresnev/tourney-api/internal/notification"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeamAddsCaptain(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := s.user(t, "captain")

	data, err := s.teams.CreateTeam(ctx, owner, "  Falcons ")
	require.NoError(t, err)
	assert.Equal(t, "Falcons", data.Name)
	require.Len(t, data.Players, 1)
	assert.Equal(t, owner.ID, *data.Players[0].UserID)
	assert.True(t, data.Players[0].IsStarter)

	_, err = s.teams.CreateTeam(ctx, owner, "falcons")
	assert.True(t, errors.Is(err, bracket.ErrValidation))

	teams, err := s.teams.GetTeamsForUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, teams, 1)
}

func TestPlayerManagement(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := s.user(t, "captain")
	team := s.team(t, owner, "Falcons")

	player, err := s.teams.AddPlayer(ctx, team.ID, PlayerInput{Name: "Sub"})
	require.NoError(t, err)
	assert.Equal(t, bracket.PlayerActive, player.Status)

	updated, err := s.teams.UpdatePlayer(ctx, team.ID, player.ID, PlayerInput{Name: "Starter", IsStarter: true})
	require.NoError(t, err)
	assert.Equal(t, "Starter", updated.Name)
	assert.True(t, updated.IsStarter)

	_, err = s.teams.AddPlayer(ctx, team.ID, PlayerInput{Name: "Dup", UserID: &owner.ID})
	assert.True(t, errors.Is(err, bracket.ErrValidation))

	other := s.team(t, owner, "Hawks")
	_, err = s.teams.UpdatePlayer(ctx, other.ID, player.ID, PlayerInput{Name: "x"})
	assert.True(t, errors.Is(err, bracket.ErrNotFound))

	require.NoError(t, s.teams.DeletePlayer(ctx, team.ID, player.ID))
	data, err := s.teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, data.Players, 1)
}

func TestInvitationFlow(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := s.user(t, "captain")
	invitee := s.user(t, "rookie")
	team := s.team(t, owner, "Falcons")

	player, err := s.teams.InvitePlayer(ctx, team.ID, "rookie")
	require.NoError(t, err)
	assert.Equal(t, bracket.PlayerPending, player.Status)

	_, err = s.teams.InvitePlayer(ctx, team.ID, "rookie")
	assert.True(t, errors.Is(err, bracket.ErrValidation))

	_, err = s.teams.InvitePlayer(ctx, team.ID, "ghost")
	assert.True(t, errors.Is(err, bracket.ErrNotFound))

	inbox, err := s.notifications.GetNotifications(ctx, invitee.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, notification.TeamInvitation, inbox[0].Type)

	var payload map[string]any
	require.NoError(t, sonic.UnmarshalString(string(inbox[0].Data), &payload))
	assert.Equal(t, player.ID.String(), payload["player_id"])

	_, err = s.teams.RespondToInvitation(ctx, player.ID, owner, true)
	assert.True(t, errors.Is(err, bracket.ErrPermission))

	accepted, err := s.teams.RespondToInvitation(ctx, player.ID, invitee, true)
	require.NoError(t, err)
	assert.Equal(t, bracket.PlayerActive, accepted.Status)

	_, err = s.teams.RespondToInvitation(ctx, player.ID, invitee, false)
	assert.True(t, errors.Is(err, bracket.ErrValidation))

	ownerInbox, err := s.notifications.GetNotifications(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, ownerInbox, 1)
	assert.Equal(t, notification.InvitationResponse, ownerInbox[0].Type)
	assert.Contains(t, ownerInbox[0].Content, "accepted")

	require.NoError(t, s.notifications.MarkRead(ctx, inbox[0].ID, invitee.ID))

	teams, err := s.teams.GetTeamsForUser(ctx, invitee.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, team.ID, teams[0].ID)
}

func TestDeclinedInvitationCanBeRepeated(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := s.user(t, "captain")
	invitee := s.user(t, "rookie")
	team := s.team(t, owner, "Falcons")

	player, err := s.teams.InvitePlayer(ctx, team.ID, invitee.Username)
	require.NoError(t, err)

	declined, err := s.teams.RespondToInvitation(ctx, player.ID, invitee, false)
	require.NoError(t, err)
	assert.Equal(t, bracket.PlayerDeclined, declined.Status)

	_, err = s.teams.InvitePlayer(ctx, team.ID, invitee.Username)
	assert.NoError(t, err)
}

func TestIsTeamOwner(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := s.user(t, "captain")
	stranger := s.user(t, "stranger")
	team := s.team(t, owner, "Falcons")

	ok, err := s.teams.IsTeamOwner(ctx, team.ID, owner)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.teams.IsTeamOwner(ctx, team.ID, stranger)
	require.NoError(t, err)
	assert.False(t, ok)
}
