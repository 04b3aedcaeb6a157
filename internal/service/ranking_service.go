package service

import (
	"context"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/AdamBeresnev/tourney-api/internal/store"
)

const topPlayers = 10

type RankingService struct {
	store *store.TeamStore
}

func NewRankingService(store *store.TeamStore) *RankingService {
	return &RankingService{store: store}
}

// TeamRankings orders teams by wins then titles.
func (s *RankingService) TeamRankings(ctx context.Context) ([]bracket.TeamRanking, error) {
	rankings, err := s.store.TeamRankings(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rankings {
		rankings[i].Points = rankings[i].Wins * bracket.PointsPerWin
	}
	return rankings, nil
}

func (s *RankingService) PlayerRankings(ctx context.Context) ([]bracket.PlayerRanking, error) {
	return s.store.PlayerRankings(ctx, topPlayers)
}
