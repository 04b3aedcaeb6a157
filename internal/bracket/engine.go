package bracket

import (
	"github.com/AdamBeresnev/tourney-api/internal/utils"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Bracket is the full single elimination tree of one tournament, kept as
// slices indexed by round and slot. Feeders and next matches are pure
// arithmetic on those indices.
type Bracket struct {
	TournamentID uuid.UUID
	Rounds       int

	slots [][]*Match
	byID  map[string]*Match
}

// Changeset collects everything one engine call mutated so the caller can
// persist it in a single transaction.
type Changeset struct {
	touched map[string]*Match
	order   []string

	Wins           map[uuid.UUID]int
	Losses         map[uuid.UUID]int
	TournamentsWon map[uuid.UUID]int

	Walkovers int
	Closed    bool
	Champion  *uuid.UUID
	RunnerUp  *uuid.UUID
}

func newChangeset() *Changeset {
	return &Changeset{
		touched:        make(map[string]*Match),
		Wins:           make(map[uuid.UUID]int),
		Losses:         make(map[uuid.UUID]int),
		TournamentsWon: make(map[uuid.UUID]int),
	}
}

func (c *Changeset) touch(m *Match) {
	if _, ok := c.touched[m.ID]; ok {
		return
	}
	c.touched[m.ID] = m
	c.order = append(c.order, m.ID)
}

// Touched returns copies of the matches changed by the call, in the order
// they were first changed.
func (c *Changeset) Touched() []Match {
	out := make([]Match, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.touched[id])
	}
	return out
}

func newBracket(tournamentID uuid.UUID, rounds int) *Bracket {
	b := &Bracket{
		TournamentID: tournamentID,
		Rounds:       rounds,
		slots:        make([][]*Match, rounds),
		byID:         make(map[string]*Match),
	}
	return b
}

// Load rebuilds the arena from persisted matches and checks that every slot
// of the tree is present exactly once.
func Load(t *Tournament, matches []Match) (*Bracket, error) {
	rounds := RoundsFor(t.MaxTeams)
	b := newBracket(t.ID, rounds)
	for r := 1; r <= rounds; r++ {
		b.slots[r-1] = make([]*Match, FirstRoundSlots(rounds)>>(r-1))
	}

	for i := range matches {
		m := matches[i]
		if m.Round < 1 || m.Round > rounds || m.MatchNumber < 1 || m.MatchNumber > len(b.slots[m.Round-1]) {
			return nil, errors.Newf("match %s is outside a %d round bracket", m.ID, rounds)
		}
		if b.slots[m.Round-1][m.MatchNumber-1] != nil {
			return nil, errors.Newf("round %d match %d stored twice", m.Round, m.MatchNumber)
		}
		b.slots[m.Round-1][m.MatchNumber-1] = &m
		b.byID[m.ID] = &m
	}

	for r, round := range b.slots {
		for n, m := range round {
			if m == nil {
				return nil, errors.Newf("round %d match %d is missing", r+1, n+1)
			}
		}
	}

	return b, nil
}

// Build materializes the whole tree for a tournament that is about to start,
// seeds the enrolled teams in order and settles every walkover it can. On
// success t moves to in_progress, or straight to closed when the walkovers
// already decided everything.
func Build(t *Tournament, teamIDs []uuid.UUID) (*Bracket, *Changeset, error) {
	if t.Status != TournamentOpen {
		return nil, nil, validationf("tournament is %s, only open tournaments can start", t.Status)
	}
	if len(teamIDs) == 0 {
		return nil, nil, validationf("tournament has no enrolled teams")
	}

	rounds := RoundsFor(t.MaxTeams)
	firstRoundSlots := FirstRoundSlots(rounds)
	if len(teamIDs) > firstRoundSlots*2 {
		return nil, nil, validationf("%d teams enrolled but the bracket holds %d", len(teamIDs), firstRoundSlots*2)
	}

	b := newBracket(t.ID, rounds)
	for r := 1; r <= rounds; r++ {
		matchesInRound := firstRoundSlots >> (r - 1)
		b.slots[r-1] = make([]*Match, matchesInRound)
		for n := 1; n <= matchesInRound; n++ {
			m := &Match{
				ID:           MatchID(t.ID, r, n),
				TournamentID: t.ID,
				Round:        r,
				MatchNumber:  n,
			}
			if _, exists := b.byID[m.ID]; exists {
				return nil, nil, validationf("duplicate match id %s", m.ID)
			}
			b.slots[r-1][n-1] = m
			b.byID[m.ID] = m
		}
	}

	for i, teamID := range teamIDs {
		m := b.slots[0][i/2]
		if i%2 == 0 {
			m.Team1ID = utils.Ptr(teamID)
		} else {
			m.Team2ID = utils.Ptr(teamID)
		}
	}

	cs := newChangeset()
	b.settle(b.slots[0], cs)

	t.Status = TournamentInProgress
	b.CheckCompleted(t, cs)

	return b, cs, nil
}

func (b *Bracket) Match(round, matchNumber int) *Match {
	if round < 1 || round > b.Rounds {
		return nil
	}
	slots := b.slots[round-1]
	if matchNumber < 1 || matchNumber > len(slots) {
		return nil
	}
	return slots[matchNumber-1]
}

func (b *Bracket) ByID(id string) *Match {
	return b.byID[id]
}

// Matches returns copies of every match ordered by round then slot.
func (b *Bracket) Matches() []Match {
	out := make([]Match, 0, len(b.byID))
	for _, round := range b.slots {
		for _, m := range round {
			out = append(out, *m)
		}
	}
	return out
}

// Final is the championship match: last round, highest slot.
func (b *Bracket) Final() *Match {
	last := b.slots[b.Rounds-1]
	return last[len(last)-1]
}

// Feeders returns the two round-1 earlier matches whose winners fill m.
func (b *Bracket) Feeders(m *Match) (*Match, *Match) {
	if m.Round <= 1 {
		return nil, nil
	}
	return b.Match(m.Round-1, 2*m.MatchNumber-1), b.Match(m.Round-1, 2*m.MatchNumber)
}

// Next returns the match the winner of m moves to and the slot it takes there.
func (b *Bracket) Next(m *Match) (*Match, int) {
	if m.Round >= b.Rounds {
		return nil, 0
	}
	next := b.Match(m.Round+1, (m.MatchNumber+1)/2)
	if m.MatchNumber%2 != 0 {
		return next, 1
	}
	return next, 2
}

func (b *Bracket) undecidedFeeder(m *Match) *Match {
	f1, f2 := b.Feeders(m)
	if f1 != nil && !f1.Decided() {
		return f1
	}
	if f2 != nil && !f2.Decided() {
		return f2
	}
	return nil
}

// ApplyScore records a result for one match and cascades it through the tree.
// Every check runs before anything is mutated.
func (b *Bracket) ApplyScore(t *Tournament, matchID string, score1, score2 int) (*Changeset, error) {
	if t.Status != TournamentInProgress {
		return nil, validationf("tournament is %s, scores can only be entered while in progress", t.Status)
	}
	if score1 < 0 || score2 < 0 {
		return nil, validationf("scores must be non-negative")
	}

	m := b.ByID(matchID)
	if m == nil {
		return nil, errors.Wrapf(ErrNotFound, "match %s", matchID)
	}
	if m.Decided() {
		return nil, validationf("match %s is already decided", matchID)
	}
	if feeder := b.undecidedFeeder(m); feeder != nil {
		return nil, &PrecededMatchIncompleteError{
			MatchID:     feeder.ID,
			Round:       feeder.Round,
			MatchNumber: feeder.MatchNumber,
		}
	}
	if m.TeamCount() == 2 && score1 == score2 {
		return nil, validationf("ties are not allowed in single elimination")
	}

	cs := newChangeset()
	switch m.TeamCount() {
	case 2:
		m.Team1Score = utils.Ptr(score1)
		m.Team2Score = utils.Ptr(score2)
		b.record(m, cs)
	default:
		b.resolveUnplayed(m, cs)
	}
	cs.touch(m)

	if next := b.advance(m, cs); next != nil {
		b.settle([]*Match{next}, cs)
	}

	b.CheckCompleted(t, cs)
	return cs, nil
}

// settle drains a worklist of matches that may have become decidable
// without play. A match qualifies once both feeders are decided and it
// holds fewer than two teams.
func (b *Bracket) settle(queue []*Match, cs *Changeset) {
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]

		if m.Decided() || m.TeamCount() == 2 || b.undecidedFeeder(m) != nil {
			continue
		}

		b.resolveUnplayed(m, cs)
		cs.touch(m)

		if next := b.advance(m, cs); next != nil {
			queue = append(queue, next)
		}
	}
}

// resolveUnplayed forces the score of a match that will never be played:
// 1-0 for a lone team, 0-0 for an empty slot.
func (b *Bracket) resolveUnplayed(m *Match, cs *Changeset) {
	switch {
	case m.Team1ID != nil:
		m.Team1Score, m.Team2Score = utils.Ptr(1), utils.Ptr(0)
		cs.Walkovers++
	case m.Team2ID != nil:
		m.Team1Score, m.Team2Score = utils.Ptr(0), utils.Ptr(1)
		cs.Walkovers++
	default:
		m.Team1Score, m.Team2Score = utils.Ptr(0), utils.Ptr(0)
		return
	}
	b.record(m, cs)
}

// record books win and loss counters for a decided match. The final's loss
// is left to completion detection so the runner-up is charged once.
//
// With three teams A and B meet in round 1 while C gets a walkover. A wins,
// then loses the final to C. A ends with one loss, booked when the tournament
// completes, not here. Booking it here as well would charge A twice.
func (b *Bracket) record(m *Match, cs *Changeset) {
	winner := m.Winner()
	if winner == nil {
		return
	}
	cs.Wins[*winner]++
	if loser := m.Loser(); loser != nil && m.Round < b.Rounds {
		cs.Losses[*loser]++
	}
}

// advance moves the winner of m into its next match and returns that match
// so the caller can check whether it became decidable.
func (b *Bracket) advance(m *Match, cs *Changeset) *Match {
	next, slot := b.Next(m)
	if next == nil {
		return nil
	}
	if winner := m.Winner(); winner != nil {
		if slot == 1 {
			next.Team1ID = utils.Ptr(*winner)
		} else {
			next.Team2ID = utils.Ptr(*winner)
		}
		cs.touch(next)
	}
	return next
}

// CheckCompleted closes an in-progress tournament once every match is
// decided and books the championship counters. Calling it again, or on a
// tournament that is not in progress, changes nothing.
func (b *Bracket) CheckCompleted(t *Tournament, cs *Changeset) bool {
	if t.Status != TournamentInProgress {
		return false
	}
	for _, round := range b.slots {
		for _, m := range round {
			if !m.Decided() {
				return false
			}
		}
	}

	t.Status = TournamentClosed
	cs.Closed = true

	final := b.Final()
	if *final.Team1Score == *final.Team2Score {
		return true
	}

	champion, runnerUp := final.Team1ID, final.Team2ID
	if *final.Team2Score > *final.Team1Score {
		champion, runnerUp = final.Team2ID, final.Team1ID
	}
	if champion != nil {
		cs.TournamentsWon[*champion]++
		cs.Champion = utils.Ptr(*champion)
	}
	if runnerUp != nil {
		cs.Losses[*runnerUp]++
		cs.RunnerUp = utils.Ptr(*runnerUp)
	}
	return true
}

// NewChangeset is used by callers that only run completion detection.
func NewChangeset() *Changeset {
	return newChangeset()
}
