package views

import (
	"fmt"
	"sort"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/google/uuid"
)

type BracketRound struct {
	Number  int
	Name    string
	Matches []bracket.Match
}

type BracketData struct {
	Tournament *bracket.Tournament
	Rounds     []BracketRound
	TeamNames  map[uuid.UUID]string
	Champion   string
}

// PrepareBracketData groups matches into ordered rounds for rendering.
func PrepareBracketData(t *bracket.Tournament, teams []bracket.Team, matches []bracket.Match) BracketData {
	teamNames := make(map[uuid.UUID]string, len(teams))
	for _, team := range teams {
		teamNames[team.ID] = team.Name
	}

	byRound := make(map[int][]bracket.Match)
	var roundNums []int
	for _, m := range matches {
		if _, exists := byRound[m.Round]; !exists {
			roundNums = append(roundNums, m.Round)
		}
		byRound[m.Round] = append(byRound[m.Round], m)
	}
	sort.Ints(roundNums)

	totalRounds := bracket.RoundsFor(t.MaxTeams)
	rounds := make([]BracketRound, 0, len(roundNums))
	for _, r := range roundNums {
		ms := byRound[r]
		sort.Slice(ms, func(i, j int) bool {
			return ms[i].MatchNumber < ms[j].MatchNumber
		})
		rounds = append(rounds, BracketRound{Number: r, Name: RoundName(r, totalRounds), Matches: ms})
	}

	data := BracketData{Tournament: t, Rounds: rounds, TeamNames: teamNames}
	if t.Status == bracket.TournamentClosed && len(rounds) > 0 {
		last := rounds[len(rounds)-1].Matches
		if winner := last[len(last)-1].Winner(); winner != nil {
			data.Champion = teamNames[*winner]
		}
	}
	return data
}

// RoundName labels a round counting back from the final.
func RoundName(round, totalRounds int) string {
	switch totalRounds - round {
	case 0:
		return "Final"
	case 1:
		return "Semifinals"
	case 2:
		return "Quarterfinals"
	default:
		return fmt.Sprintf("Round %d", round)
	}
}

func (d BracketData) TeamName(id *uuid.UUID) string {
	if id == nil {
		return "TBD"
	}
	if name, ok := d.TeamNames[*id]; ok {
		return name
	}
	return "Unknown team"
}
