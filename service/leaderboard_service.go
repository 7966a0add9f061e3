package service

import (
	"context"
	"fmt"

	"clicker/models"
)

// LeaderboardPageSize is the number of entries per rendered page
const LeaderboardPageSize = 10

// leaderboardService implements the LeaderboardService interface
type leaderboardService struct {
	scoreRepo    UserScoreRepository
	rankComputer RankComputer
}

// NewLeaderboardService creates a new leaderboard service backed by the
// default linear-scan rank computer
func NewLeaderboardService(scoreRepo UserScoreRepository) LeaderboardService {
	return &leaderboardService{
		scoreRepo:    scoreRepo,
		rankComputer: &linearRankComputer{scoreRepo: scoreRepo},
	}
}

// NewLeaderboardServiceWithRankComputer creates a leaderboard service with a
// custom rank computation strategy
func NewLeaderboardServiceWithRankComputer(scoreRepo UserScoreRepository, rankComputer RankComputer) LeaderboardService {
	return &leaderboardService{
		scoreRepo:    scoreRepo,
		rankComputer: rankComputer,
	}
}

// RenderTop builds the top page in the requested direction plus the viewer's
// global rank. Every call re-runs both queries; toggles are not incremental.
func (s *leaderboardService) RenderTop(ctx context.Context, viewerID string, direction models.SortDirection) (*models.LeaderboardView, error) {
	scores, err := s.scoreRepo.TopByCounter(ctx, direction, LeaderboardPageSize, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard page: %w", err)
	}

	view := &models.LeaderboardView{
		Direction: direction,
		Entries:   make([]models.LeaderboardEntry, 0, len(scores)),
	}

	for i, score := range scores {
		view.Entries = append(view.Entries, models.LeaderboardEntry{
			Position:  i,
			Username:  score.Username,
			AvatarURL: score.AvatarURL,
			Counter:   score.Counter,
		})
	}

	rank, total, err := s.rankComputer.ComputeRank(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute viewer rank: %w", err)
	}
	view.ViewerRank = rank
	view.TotalUsers = total

	return view, nil
}

// linearRankComputer ranks the viewer by scanning the full descending list
// for the first record whose counter matches the viewer's counter. Users tied
// on counter therefore report the same scan-order-dependent rank; that quirk
// is deliberate, not a tie-breaking guarantee.
type linearRankComputer struct {
	scoreRepo UserScoreRepository
}

func (c *linearRankComputer) ComputeRank(ctx context.Context, viewerID string) (int, int, error) {
	viewer, err := c.scoreRepo.GetByUserID(ctx, viewerID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get viewer record: %w", err)
	}

	all, err := c.scoreRepo.AllOrderedByCounterDesc(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to scan records for rank: %w", err)
	}

	if viewer == nil {
		// Unranked viewers are an expected outcome, not an error
		return 0, len(all), nil
	}

	for i, score := range all {
		if score.Counter == viewer.Counter {
			return i + 1, len(all), nil
		}
	}

	return 0, len(all), nil
}
