package bracket

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTeams(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func openTournament(maxTeams int) *Tournament {
	return &Tournament{
		ID:       uuid.New(),
		Name:     "Spring Cup",
		MaxTeams: maxTeams,
		Status:   TournamentOpen,
	}
}

func TestRoundsFor(t *testing.T) {
	testCases := []struct {
		maxTeams int
		rounds   int
		slots    int
	}{
		{maxTeams: 1, rounds: 1, slots: 1},
		{maxTeams: 2, rounds: 1, slots: 1},
		{maxTeams: 3, rounds: 2, slots: 2},
		{maxTeams: 4, rounds: 2, slots: 2},
		{maxTeams: 5, rounds: 3, slots: 4},
		{maxTeams: 8, rounds: 3, slots: 4},
		{maxTeams: 16, rounds: 4, slots: 8},
	}

	for _, tc := range testCases {
		rounds := RoundsFor(tc.maxTeams)
		assert.Equal(t, tc.rounds, rounds, "max_teams=%d", tc.maxTeams)
		assert.Equal(t, tc.slots, FirstRoundSlots(rounds), "max_teams=%d", tc.maxTeams)
	}
}

func TestBuildPowerOfTwo(t *testing.T) {
	for _, k := range []int{1, 2, 3, 4} {
		n := 1 << k
		tournament := openTournament(n)
		teams := newTeams(n)

		b, cs, err := Build(tournament, teams)
		require.NoError(t, err)

		assert.Len(t, b.Matches(), n-1, "teams=%d", n)
		assert.Zero(t, cs.Walkovers, "teams=%d", n)
		assert.Equal(t, TournamentInProgress, tournament.Status)

		for _, m := range b.Matches() {
			if m.Round == 1 {
				assert.Equal(t, 2, m.TeamCount())
			} else {
				assert.Zero(t, m.TeamCount())
			}
			assert.False(t, m.Decided())
		}
	}
}

func TestBuildSeedsInEnrollmentOrder(t *testing.T) {
	tournament := openTournament(8)
	teams := newTeams(8)

	b, _, err := Build(tournament, teams)
	require.NoError(t, err)

	for i, teamID := range teams {
		m := b.Match(1, i/2+1)
		require.NotNil(t, m)
		if i%2 == 0 {
			assert.Equal(t, teamID, *m.Team1ID)
		} else {
			assert.Equal(t, teamID, *m.Team2ID)
		}
	}
}

func TestBuildMatchIDs(t *testing.T) {
	tournament := openTournament(4)
	b, _, err := Build(tournament, newTeams(4))
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, m := range b.Matches() {
		assert.Equal(t, MatchID(tournament.ID, m.Round, m.MatchNumber), m.ID)
		assert.False(t, seen[m.ID])
		seen[m.ID] = true
	}
	assert.NotNil(t, b.ByID(tournament.ID.String()+"-r2-m1"))
}

func TestBuildNonPowerOfTwo(t *testing.T) {
	testCases := []struct {
		name           string
		maxTeams       int
		enrolled       int
		rounds         int
		walkovers      int
		deadSlots      int
		undecidedFinal bool
	}{
		{name: "5 of 8", maxTeams: 8, enrolled: 5, rounds: 3, walkovers: 2, deadSlots: 1, undecidedFinal: true},
		{name: "3 of 4", maxTeams: 4, enrolled: 3, rounds: 2, walkovers: 1, deadSlots: 0, undecidedFinal: true},
		{name: "6 of 6", maxTeams: 6, enrolled: 6, rounds: 3, walkovers: 0, deadSlots: 1, undecidedFinal: true},
		{name: "2 of 8", maxTeams: 8, enrolled: 2, rounds: 3, walkovers: 0, deadSlots: 4, undecidedFinal: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tournament := openTournament(tc.maxTeams)
			b, cs, err := Build(tournament, newTeams(tc.enrolled))
			require.NoError(t, err)

			assert.Equal(t, tc.rounds, b.Rounds)
			assert.Len(t, b.Matches(), (1<<tc.rounds)-1)
			assert.Equal(t, tc.walkovers, cs.Walkovers)

			dead := 0
			for _, m := range b.Matches() {
				if m.Decided() && m.TeamCount() == 0 {
					dead++
				}
			}
			assert.Equal(t, tc.deadSlots, dead)
			assert.Equal(t, tc.undecidedFinal, !b.Final().Decided())
		})
	}
}

func TestBuildPreconditions(t *testing.T) {
	t.Run("no teams", func(t *testing.T) {
		tournament := openTournament(4)
		_, _, err := Build(tournament, nil)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Equal(t, TournamentOpen, tournament.Status)
	})

	t.Run("already started", func(t *testing.T) {
		tournament := openTournament(4)
		tournament.Status = TournamentInProgress
		_, _, err := Build(tournament, newTeams(4))
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("too many teams", func(t *testing.T) {
		tournament := openTournament(4)
		_, _, err := Build(tournament, newTeams(5))
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Equal(t, TournamentOpen, tournament.Status)
	})
}

func TestSingleTeamClosesOnStart(t *testing.T) {
	tournament := openTournament(1)
	team := uuid.New()

	b, cs, err := Build(tournament, []uuid.UUID{team})
	require.NoError(t, err)

	require.Len(t, b.Matches(), 1)
	m := b.Matches()[0]
	assert.Equal(t, 1, *m.Team1Score)
	assert.Equal(t, 0, *m.Team2Score)

	assert.Equal(t, TournamentClosed, tournament.Status)
	assert.True(t, cs.Closed)
	assert.Equal(t, 1, cs.Wins[team])
	assert.Equal(t, 1, cs.TournamentsWon[team])
	assert.Equal(t, team, *cs.Champion)
	assert.Nil(t, cs.RunnerUp)
	assert.Empty(t, cs.Losses)
}

func TestThreeTeamScenario(t *testing.T) {
	tournament := openTournament(4)
	teams := newTeams(3)
	a, bTeam, c := teams[0], teams[1], teams[2]

	b, cs, err := Build(tournament, teams)
	require.NoError(t, err)

	m1 := b.Match(1, 1)
	m2 := b.Match(1, 2)
	final := b.Match(2, 1)

	assert.Equal(t, a, *m1.Team1ID)
	assert.Equal(t, bTeam, *m1.Team2ID)
	assert.Equal(t, c, *m2.Team1ID)
	assert.Nil(t, m2.Team2ID)
	assert.Equal(t, 1, *m2.Team1Score)
	assert.Equal(t, 0, *m2.Team2Score)
	assert.Equal(t, 1, cs.Wins[c])

	assert.Equal(t, c, *final.Team2ID)
	assert.Nil(t, final.Team1ID)
	assert.False(t, final.Decided())

	cs, err = b.ApplyScore(tournament, m1.ID, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, a, *final.Team1ID)
	assert.True(t, final.HasTeam(a))
	assert.False(t, final.HasTeam(bTeam))
	assert.Equal(t, 1, cs.Wins[a])
	assert.Equal(t, 1, cs.Losses[bTeam])
	assert.False(t, cs.Closed)
	assert.Equal(t, TournamentInProgress, tournament.Status)

	cs, err = b.ApplyScore(tournament, final.ID, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, cs.Wins[c])
	assert.Equal(t, 1, cs.TournamentsWon[c])
	// booked once, by completion
	assert.Equal(t, 1, cs.Losses[a])
	assert.Len(t, cs.Losses, 1)
	assert.True(t, cs.Closed)
	assert.Equal(t, TournamentClosed, tournament.Status)
}

func TestOutOfOrderScoreRejected(t *testing.T) {
	tournament := openTournament(4)
	b, _, err := Build(tournament, newTeams(4))
	require.NoError(t, err)

	before := b.Matches()
	final := b.Match(2, 1)

	_, err = b.ApplyScore(tournament, final.ID, 1, 0)
	require.Error(t, err)

	var incomplete *PrecededMatchIncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 1, incomplete.Round)
	assert.Equal(t, 1, incomplete.MatchNumber)

	assert.Equal(t, before, b.Matches())
}

func TestApplyScoreRejections(t *testing.T) {
	tournament := openTournament(4)
	b, _, err := Build(tournament, newTeams(4))
	require.NoError(t, err)
	m1 := b.Match(1, 1)

	testCases := []struct {
		name    string
		matchID string
		s1, s2  int
		target  error
	}{
		{name: "tie", matchID: m1.ID, s1: 2, s2: 2, target: ErrValidation},
		{name: "negative score", matchID: m1.ID, s1: -1, s2: 2, target: ErrValidation},
		{name: "unknown match", matchID: "nope", s1: 1, s2: 0, target: ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := b.Matches()
			_, err := b.ApplyScore(tournament, tc.matchID, tc.s1, tc.s2)
			assert.True(t, errors.Is(err, tc.target), "got %v", err)
			assert.Equal(t, before, b.Matches())
		})
	}

	t.Run("already decided", func(t *testing.T) {
		_, err := b.ApplyScore(tournament, m1.ID, 3, 1)
		require.NoError(t, err)
		_, err = b.ApplyScore(tournament, m1.ID, 0, 5)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("tournament not in progress", func(t *testing.T) {
		closed := *tournament
		closed.Status = TournamentClosed
		_, err := b.ApplyScore(&closed, b.Match(1, 2).ID, 1, 0)
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestWinnerLandingSlot(t *testing.T) {
	tournament := openTournament(8)
	teams := newTeams(8)
	b, _, err := Build(tournament, teams)
	require.NoError(t, err)

	for n := 1; n <= 4; n++ {
		m := b.Match(1, n)
		winner := *m.Team1ID
		_, err := b.ApplyScore(tournament, m.ID, 3, 0)
		require.NoError(t, err)

		next := b.Match(2, (n+1)/2)
		if n%2 == 1 {
			assert.Equal(t, winner, *next.Team1ID, "slot %d", n)
		} else {
			assert.Equal(t, winner, *next.Team2ID, "slot %d", n)
		}
	}
}

func TestCheckCompletedIdempotent(t *testing.T) {
	tournament := openTournament(2)
	teams := newTeams(2)
	b, _, err := Build(tournament, teams)
	require.NoError(t, err)

	assert.False(t, b.CheckCompleted(tournament, NewChangeset()))

	cs, err := b.ApplyScore(tournament, b.Final().ID, 0, 4)
	require.NoError(t, err)
	assert.True(t, cs.Closed)
	assert.Equal(t, 1, cs.TournamentsWon[teams[1]])
	assert.Equal(t, 1, cs.Losses[teams[0]])

	again := NewChangeset()
	assert.False(t, b.CheckCompleted(tournament, again))
	assert.False(t, again.Closed)
	assert.Empty(t, again.TournamentsWon)
	assert.Empty(t, again.Losses)
}

func TestCascadeThroughDeadSlots(t *testing.T) {
	tournament := openTournament(8)
	teams := newTeams(2)

	b, cs, err := Build(tournament, teams)
	require.NoError(t, err)

	// teams share slot 1, the rest of the tree is empty
	assert.Zero(t, cs.Walkovers)
	assert.True(t, b.Match(2, 2).Decided())
	assert.False(t, b.Match(2, 1).Decided())

	cs, err = b.ApplyScore(tournament, b.Match(1, 1).ID, 5, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, cs.Walkovers)
	assert.True(t, cs.Closed)
	assert.Equal(t, teams[0], *cs.Champion)
	assert.Nil(t, cs.RunnerUp)
	assert.Equal(t, 3, cs.Wins[teams[0]])
	assert.Equal(t, 1, cs.Losses[teams[1]])
}

func TestLoadRoundTrip(t *testing.T) {
	tournament := openTournament(5)
	b, _, err := Build(tournament, newTeams(5))
	require.NoError(t, err)

	loaded, err := Load(tournament, b.Matches())
	require.NoError(t, err)
	assert.Equal(t, b.Matches(), loaded.Matches())

	_, err = Load(tournament, b.Matches()[1:])
	assert.Error(t, err)
}
