package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/freeeve/gpu-wars/internal/model"
)

const leaderboardColumns = `id, twitter_handle, faction, score, rounds_survived, enemies_eliminated, gpus_remaining, created_at`

// LeaderboardRepo handles leaderboard database operations.
type LeaderboardRepo struct {
	db *sql.DB
}

// NewLeaderboardRepo creates a LeaderboardRepo.
func NewLeaderboardRepo(db *sql.DB) *LeaderboardRepo {
	return &LeaderboardRepo{db: db}
}

// Add inserts an entry and returns it as stored.
func (r *LeaderboardRepo) Add(ctx context.Context, e *model.LeaderboardEntry) (*model.LeaderboardEntry, error) {
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	var out model.LeaderboardEntry
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO leaderboard (id, twitter_handle, faction, score, rounds_survived, enemies_eliminated, gpus_remaining)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+leaderboardColumns,
		id, e.TwitterHandle, e.Faction, e.Score, e.RoundsSurvived, e.EnemiesEliminated, e.GPUsRemaining,
	).Scan(&out.ID, &out.TwitterHandle, &out.Faction, &out.Score, &out.RoundsSurvived, &out.EnemiesEliminated, &out.GPUsRemaining, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add leaderboard entry: %w", err)
	}
	return &out, nil
}

// Top returns the best entries, highest score first and earliest first on ties.
func (r *LeaderboardRepo) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard ORDER BY score DESC, created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []model.LeaderboardEntry{}
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.TwitterHandle, &e.Faction, &e.Score, &e.RoundsSurvived, &e.EnemiesEliminated, &e.GPUsRemaining, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// BestForHandle returns a handle's highest-scoring entry, or nil if none.
func (r *LeaderboardRepo) BestForHandle(ctx context.Context, handle string) (*model.LeaderboardEntry, error) {
	var e model.LeaderboardEntry
	err := r.db.QueryRowContext(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard WHERE twitter_handle = $1
		 ORDER BY score DESC, created_at ASC LIMIT 1`, handle,
	).Scan(&e.ID, &e.TwitterHandle, &e.Faction, &e.Score, &e.RoundsSurvived, &e.EnemiesEliminated, &e.GPUsRemaining, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("best for handle: %w", err)
	}
	return &e, nil
}
