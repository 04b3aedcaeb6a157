package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/AdamBeresnev/tourney-api/internal/notification"
	"github.com/AdamBeresnev/tourney-api/internal/store"
	users "github.com/AdamBeresnev/tourney-api/internal/user"
	"github.com/AdamBeresnev/tourney-api/internal/utils"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TeamService struct {
	db            *sqlx.DB
	store         *store.TeamStore
	users         *store.UserStore
	notifications *NotificationService
}

func NewTeamService(db *sqlx.DB, store *store.TeamStore, users *store.UserStore, notifications *NotificationService) *TeamService {
	return &TeamService{db: db, store: store, users: users, notifications: notifications}
}

type PlayerInput struct {
	Name      string     `json:"name" validate:"required,max=100"`
	UserID    *uuid.UUID `json:"user_id"`
	IsStarter bool       `json:"is_starter"`
}

type TeamData struct {
	*bracket.Team
	Players []bracket.Player `json:"players"`
}

// CreateTeam creates a team and adds its owner as an active starter.
func (s *TeamService) CreateTeam(ctx context.Context, owner *users.User, name string) (*TeamData, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Wrap(bracket.ErrValidation, "team name is required")
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	team := &bracket.Team{
		ID:        uuid.New(),
		OwnerID:   owner.ID,
		Name:      name,
		CreatedAt: now,
	}
	captain := bracket.Player{
		ID:        uuid.New(),
		TeamID:    team.ID,
		UserID:    utils.Ptr(owner.ID),
		Name:      owner.Username,
		IsStarter: true,
		Status:    bracket.PlayerActive,
		CreatedAt: now,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTeam(ctx, tx, team); err != nil {
		return nil, err
	}
	if err := s.store.CreatePlayer(ctx, tx, &captain); err != nil {
		return nil, err
	}

	return &TeamData{Team: team, Players: []bracket.Player{captain}}, tx.Commit()
}

func (s *TeamService) RenameTeam(ctx context.Context, id uuid.UUID, name string) (*bracket.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Wrap(bracket.ErrValidation, "team name is required")
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}
	if err := s.store.RenameTeam(ctx, id, name); err != nil {
		return nil, err
	}
	return s.store.GetTeam(ctx, id)
}

func (s *TeamService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return err
	}
	for _, t := range teams {
		if t.ID != self && strings.EqualFold(t.Name, name) {
			return errors.Wrapf(bracket.ErrValidation, "team %q already exists", name)
		}
	}
	return nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteTeam(ctx, id)
}

func (s *TeamService) ListTeams(ctx context.Context) ([]bracket.Team, error) {
	return s.store.ListTeams(ctx)
}

func (s *TeamService) GetTeam(ctx context.Context, id uuid.UUID) (*TeamData, error) {
	team, err := s.store.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	players, err := s.store.GetPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TeamData{Team: team, Players: players}, nil
}

func (s *TeamService) GetTeamsForUser(ctx context.Context, userID uuid.UUID) ([]bracket.Team, error) {
	return s.store.GetTeamsForUser(ctx, userID)
}

// AddPlayer adds an active player directly, bypassing invitations.
func (s *TeamService) AddPlayer(ctx context.Context, teamID uuid.UUID, in PlayerInput) (*bracket.Player, error) {
	if _, err := s.store.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.Wrap(bracket.ErrValidation, "player name is required")
	}
	if in.UserID != nil {
		if _, err := s.users.GetUser(ctx, *in.UserID); err != nil {
			return nil, err
		}
		member, err := s.store.HasMembership(ctx, teamID, *in.UserID)
		if err != nil {
			return nil, err
		}
		if member {
			return nil, errors.Wrap(bracket.ErrValidation, "user is already on this team")
		}
	}

	player := &bracket.Player{
		ID:        uuid.New(),
		TeamID:    teamID,
		UserID:    in.UserID,
		Name:      name,
		IsStarter: in.IsStarter,
		Status:    bracket.PlayerActive,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreatePlayer(ctx, tx, player); err != nil {
		return nil, err
	}
	return player, tx.Commit()
}

func (s *TeamService) UpdatePlayer(ctx context.Context, teamID, playerID uuid.UUID, in PlayerInput) (*bracket.Player, error) {
	player, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.TeamID != teamID {
		return nil, errors.Wrap(bracket.ErrNotFound, "player")
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		player.Name = name
	}
	player.IsStarter = in.IsStarter

	if err := s.store.UpdatePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *TeamService) DeletePlayer(ctx context.Context, teamID, playerID uuid.UUID) error {
	return s.store.DeletePlayer(ctx, teamID, playerID)
}

// InvitePlayer creates a pending player for the user and notifies them.
func (s *TeamService) InvitePlayer(ctx context.Context, teamID uuid.UUID, username string) (*bracket.Player, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	invitee, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	member, err := s.store.HasMembership(ctx, teamID, invitee.ID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, errors.Wrapf(bracket.ErrValidation, "%s is already on or invited to %s", invitee.Username, team.Name)
	}

	player := &bracket.Player{
		ID:        uuid.New(),
		TeamID:    teamID,
		UserID:    utils.Ptr(invitee.ID),
		Name:      invitee.Username,
		Status:    bracket.PlayerPending,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreatePlayer(ctx, tx, player); err != nil {
		return nil, err
	}
	err = s.notifications.Notify(ctx, tx, invitee.ID, notification.TeamInvitation,
		fmt.Sprintf("You have been invited to join the team %s", team.Name),
		map[string]any{
			"team_id":   team.ID,
			"team_name": team.Name,
			"player_id": player.ID,
		})
	if err != nil {
		return nil, err
	}

	return player, tx.Commit()
}

// RespondToInvitation lets the invited user accept or decline. The team
// owner is told about the answer.
func (s *TeamService) RespondToInvitation(ctx context.Context, playerID uuid.UUID, user *users.User, accept bool) (*bracket.Player, error) {
	player, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.UserID == nil || *player.UserID != user.ID {
		return nil, errors.Wrap(bracket.ErrPermission, "invitation belongs to another user")
	}
	if player.Status != bracket.PlayerPending {
		return nil, errors.Wrapf(bracket.ErrValidation, "invitation was already answered (%s)", player.Status)
	}
	team, err := s.store.GetTeam(ctx, player.TeamID)
	if err != nil {
		return nil, err
	}

	player.Status = bracket.PlayerDeclined
	verb := "declined"
	if accept {
		player.Status = bracket.PlayerActive
		verb = "accepted"
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.SetPlayerStatus(ctx, tx, player.ID, player.Status); err != nil {
		return nil, err
	}
	err = s.notifications.Notify(ctx, tx, team.OwnerID, notification.InvitationResponse,
		fmt.Sprintf("%s %s the invitation to join %s", user.Username, verb, team.Name),
		map[string]any{
			"team_id":   team.ID,
			"player_id": player.ID,
			"user_id":   user.ID,
			"accepted":  accept,
		})
	if err != nil {
		return nil, err
	}

	return player, tx.Commit()
}

// IsTeamOwner reports whether user may manage the team. Admins own everything.
func (s *TeamService) IsTeamOwner(ctx context.Context, id uuid.UUID, user *users.User) (bool, error) {
	if user == nil {
		return false, nil
	}
	team, err := s.store.GetTeam(ctx, id)
	if err != nil {
		return false, err
	}
	return user.IsAdmin || team.OwnerID == user.ID, nil
}
