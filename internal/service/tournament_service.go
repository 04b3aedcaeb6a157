package service

import (
	"context"
	"strings"
	"time"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/AdamBeresnev/tourney-api/internal/store"
	users "github.com/AdamBeresnev/tourney-api/internal/user"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
	locks *TournamentLocks
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, locks *TournamentLocks) *TournamentService {
	return &TournamentService{db: db, store: store, locks: locks}
}

type TournamentInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Date     string `json:"date" validate:"max=32"`
	MaxTeams int    `json:"max_teams" validate:"required,min=1,max=256"`
}

type TournamentUpdate struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Date     *string `json:"date" validate:"omitempty,max=32"`
	MaxTeams *int    `json:"max_teams" validate:"omitempty,min=1,max=256"`
}

type TournamentData struct {
	Tournament *bracket.Tournament `json:"tournament"`
	Teams      []bracket.Team      `json:"teams"`
	Matches    []bracket.Match     `json:"matches"`
}

func (s *TournamentService) CreateTournament(ctx context.Context, ownerID uuid.UUID, in TournamentInput) (*bracket.Tournament, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.Wrap(bracket.ErrValidation, "tournament name is required")
	}
	if in.MaxTeams < 1 {
		return nil, errors.Wrap(bracket.ErrValidation, "max_teams must be at least 1")
	}

	tournament := &bracket.Tournament{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Date:      strings.TrimSpace(in.Date),
		MaxTeams:  in.MaxTeams,
		Status:    bracket.TournamentOpen,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, tournament); err != nil {
		return nil, err
	}

	return tournament, tx.Commit()
}

// UpdateTournament edits an open tournament. Capacity may not drop below the
// number of teams already enrolled.
func (s *TournamentService) UpdateTournament(ctx context.Context, id uuid.UUID, in TournamentUpdate) (*bracket.Tournament, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	tournament, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.Status != bracket.TournamentOpen {
		return nil, errors.Wrapf(bracket.ErrValidation, "tournament is %s, only open tournaments can be edited", tournament.Status)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, errors.Wrap(bracket.ErrValidation, "tournament name is required")
		}
		tournament.Name = name
	}
	if in.Date != nil {
		tournament.Date = strings.TrimSpace(*in.Date)
	}
	if in.MaxTeams != nil {
		enrolled, err := s.store.CountTeams(ctx, id)
		if err != nil {
			return nil, err
		}
		if *in.MaxTeams < 1 || *in.MaxTeams < enrolled {
			return nil, errors.Wrapf(bracket.ErrValidation, "max_teams must be at least %d", max(1, enrolled))
		}
		tournament.MaxTeams = *in.MaxTeams
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.UpdateTournament(ctx, tx, tournament); err != nil {
		return nil, err
	}

	return tournament, tx.Commit()
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	return s.store.DeleteTournament(ctx, id)
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	return s.store.GetTournament(ctx, id)
}

func (s *TournamentService) ListTournaments(ctx context.Context, status *bracket.TournamentStatus) ([]bracket.Tournament, error) {
	if status != nil {
		switch *status {
		case bracket.TournamentOpen, bracket.TournamentInProgress, bracket.TournamentClosed:
		default:
			return nil, errors.Wrapf(bracket.ErrValidation, "unknown status %q", *status)
		}
	}
	return s.store.ListTournaments(ctx, status)
}

// GetTournamentData loads a tournament with its enrolled teams and matches.
func (s *TournamentService) GetTournamentData(ctx context.Context, id uuid.UUID) (*TournamentData, error) {
	tournament, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	data := &TournamentData{Tournament: tournament}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := s.store.GetTeams(gctx, id)
		data.Teams = teams
		return err
	})
	g.Go(func() error {
		matches, err := s.store.GetMatches(gctx, id)
		data.Matches = matches
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return data, nil
}

// JoinTournament enrolls a team. Joining twice is a no-op.
func (s *TournamentService) JoinTournament(ctx context.Context, id, teamID uuid.UUID) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	tournament, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return err
	}
	if tournament.Status != bracket.TournamentOpen {
		return errors.Wrapf(bracket.ErrValidation, "tournament is %s, teams can only join while open", tournament.Status)
	}

	enrolled, err := s.store.IsEnrolled(ctx, id, teamID)
	if err != nil {
		return err
	}
	if enrolled {
		return nil
	}

	count, err := s.store.CountTeams(ctx, id)
	if err != nil {
		return err
	}
	if count >= tournament.MaxTeams {
		return errors.Wrapf(bracket.ErrValidation, "tournament is full (%d teams)", tournament.MaxTeams)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.EnrollTeam(ctx, tx, id, teamID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *TournamentService) LeaveTournament(ctx context.Context, id, teamID uuid.UUID) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	tournament, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return err
	}
	if tournament.Status != bracket.TournamentOpen {
		return errors.Wrapf(bracket.ErrValidation, "tournament is %s, teams can only leave while open", tournament.Status)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.WithdrawTeam(ctx, tx, id, teamID); err != nil {
		return err
	}
	return tx.Commit()
}

// IsTournamentOwner reports whether user may administer the tournament.
// Admins own everything.
func (s *TournamentService) IsTournamentOwner(ctx context.Context, id uuid.UUID, user *users.User) (bool, error) {
	if user == nil {
		return false, nil
	}
	tournament, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return false, err
	}
	return user.IsAdmin || tournament.OwnerID == user.ID, nil
}
