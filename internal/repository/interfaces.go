package repository

import (
	"context"

	"github.com/freeeve/gpu-wars/internal/model"
)

// LeaderboardRepository defines leaderboard data operations.
// Not-found lookups return nil, nil.
type LeaderboardRepository interface {
	Add(ctx context.Context, e *model.LeaderboardEntry) (*model.LeaderboardEntry, error)
	Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	BestForHandle(ctx context.Context, handle string) (*model.LeaderboardEntry, error)
}

// MatchRepository defines arena match data operations.
type MatchRepository interface {
	Create(ctx context.Context, m *model.Match) error
	FindByID(ctx context.Context, id string) (*model.Match, error)
}

// LeaderboardCache defines the ranked leaderboard cache (Redis).
type LeaderboardCache interface {
	Push(ctx context.Context, e model.LeaderboardEntry, keep int) error
	Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	Invalidate(ctx context.Context) error
}
