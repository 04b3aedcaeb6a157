package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/AdamBeresnev/tourney-api/internal/store"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	EventBracketStarted = "bracket.started"
	EventMatchUpdated   = "match.updated"
	EventTournamentDone = "tournament.closed"
)

// MatchService is the transaction boundary around the bracket engine. Every
// public call loads the tree, runs the engine in memory and persists the
// resulting changeset in one transaction.
type MatchService struct {
	db          *sqlx.DB
	tournaments *store.TournamentStore
	teams       *store.TeamStore
	locks       *TournamentLocks
	publisher   Publisher
}

func NewMatchService(db *sqlx.DB, tournaments *store.TournamentStore, teams *store.TeamStore, locks *TournamentLocks) *MatchService {
	return &MatchService{
		db:          db,
		tournaments: tournaments,
		teams:       teams,
		locks:       locks,
		publisher:   nopPublisher{},
	}
}

func (s *MatchService) SetPublisher(p Publisher) {
	if p == nil {
		p = nopPublisher{}
	}
	s.publisher = p
}

// BracketUpdate is what live subscribers receive after a change.
type BracketUpdate struct {
	TournamentID uuid.UUID                `json:"tournament_id"`
	Status       bracket.TournamentStatus `json:"status"`
	Matches      []bracket.Match          `json:"matches"`
	ChampionID   *uuid.UUID               `json:"champion_id,omitempty"`
}

func (s *MatchService) GetMatch(ctx context.Context, id string) (*bracket.Match, error) {
	return s.tournaments.GetMatch(ctx, id)
}

func (s *MatchService) GetMatches(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	if _, err := s.tournaments.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.tournaments.GetMatches(ctx, tournamentID)
}

// StartTournament builds the bracket of an open tournament from its enrolled
// teams and moves it to in_progress.
func (s *MatchService) StartTournament(ctx context.Context, tournamentID uuid.UUID) (*bracket.Tournament, []bracket.Match, error) {
	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	tournament, err := s.tournaments.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}

	existing, err := s.tournaments.CountMatches(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	if existing > 0 {
		return nil, nil, errors.Wrapf(bracket.ErrValidation, "tournament already has %d matches", existing)
	}

	teams, err := s.tournaments.GetTeams(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	teamIDs := make([]uuid.UUID, len(teams))
	for i, team := range teams {
		teamIDs[i] = team.ID
	}

	b, cs, err := bracket.Build(tournament, teamIDs)
	if err != nil {
		return nil, nil, err
	}

	matches := b.Matches()
	now := time.Now().UTC()
	for i := range matches {
		matches[i].CreatedAt = now
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	if err := s.tournaments.CreateMatches(ctx, tx, matches); err != nil {
		return nil, nil, err
	}
	if err := s.applyCounters(ctx, tx, cs); err != nil {
		return nil, nil, err
	}
	if err := s.tournaments.UpdateStatus(ctx, tx, tournament.ID, tournament.Status); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, errors.Wrap(err, "failed to commit bracket")
	}

	zap.L().Info("tournament started",
		zap.String("tournament_id", tournament.ID.String()),
		zap.Int("teams", len(teamIDs)),
		zap.Int("rounds", b.Rounds),
		zap.Int("walkovers", cs.Walkovers),
	)
	s.publish(EventBracketStarted, tournament, matches, cs)

	return tournament, matches, nil
}

// UpdateScore records the result of one match and propagates it.
func (s *MatchService) UpdateScore(ctx context.Context, matchID string, score1, score2 int) (*bracket.Match, error) {
	match, err := s.tournaments.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(match.TournamentID)
	defer unlock()

	tournament, b, err := s.loadBracket(ctx, match.TournamentID)
	if err != nil {
		return nil, err
	}

	cs, err := b.ApplyScore(tournament, matchID, score1, score2)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, tournament, cs); err != nil {
		return nil, err
	}

	zap.L().Info("match scored",
		zap.String("match_id", matchID),
		zap.Int("team1_score", score1),
		zap.Int("team2_score", score2),
		zap.Int("changed", len(cs.Touched())),
		zap.Bool("closed", cs.Closed),
	)
	s.publish(EventMatchUpdated, tournament, cs.Touched(), cs)

	updated := *b.ByID(matchID)
	return &updated, nil
}

// CheckCompleted closes the tournament if every match is decided. It is safe
// to call any number of times.
func (s *MatchService) CheckCompleted(ctx context.Context, tournamentID uuid.UUID) (bool, error) {
	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	tournament, err := s.tournaments.GetTournament(ctx, tournamentID)
	if err != nil {
		return false, err
	}
	if tournament.Status != bracket.TournamentInProgress {
		return false, nil
	}

	tournament, b, err := s.loadBracket(ctx, tournamentID)
	if err != nil {
		return false, err
	}

	cs := bracket.NewChangeset()
	if !b.CheckCompleted(tournament, cs) {
		return false, nil
	}

	if err := s.persist(ctx, tournament, cs); err != nil {
		return false, err
	}
	s.publish(EventTournamentDone, tournament, nil, cs)
	return true, nil
}

func (s *MatchService) loadBracket(ctx context.Context, tournamentID uuid.UUID) (*bracket.Tournament, *bracket.Bracket, error) {
	tournament, err := s.tournaments.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	matches, err := s.tournaments.GetMatches(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	b, err := bracket.Load(tournament, matches)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to load bracket of tournament %s", tournamentID)
	}
	return tournament, b, nil
}

func (s *MatchService) persist(ctx context.Context, tournament *bracket.Tournament, cs *bracket.Changeset) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.tournaments.UpdateMatches(ctx, tx, cs.Touched()); err != nil {
		return err
	}
	if err := s.applyCounters(ctx, tx, cs); err != nil {
		return err
	}
	if cs.Closed {
		if err := s.tournaments.UpdateStatus(ctx, tx, tournament.ID, bracket.TournamentClosed); err != nil {
			return err
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit bracket changes")
}

// applyCounters writes team and player counters in a stable team order.
func (s *MatchService) applyCounters(ctx context.Context, tx *sqlx.Tx, cs *bracket.Changeset) error {
	var teamIDs []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, m := range []map[uuid.UUID]int{cs.Wins, cs.Losses, cs.TournamentsWon} {
		for id := range m {
			if !seen[id] {
				seen[id] = true
				teamIDs = append(teamIDs, id)
			}
		}
	}
	slices.SortFunc(teamIDs, func(a, b uuid.UUID) int {
		return strings.Compare(a.String(), b.String())
	})

	for _, id := range teamIDs {
		if err := s.teams.AddResults(ctx, tx, id, cs.Wins[id], cs.Losses[id], cs.TournamentsWon[id]); err != nil {
			return err
		}
	}
	return nil
}

func (s *MatchService) publish(event string, tournament *bracket.Tournament, matches []bracket.Match, cs *bracket.Changeset) {
	s.publisher.Broadcast(tournament.ID, event, BracketUpdate{
		TournamentID: tournament.ID,
		Status:       tournament.Status,
		Matches:      matches,
		ChampionID:   cs.Champion,
	})
}
