package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/freeeve/gpu-wars/internal/model"
)

const leaderboardColumns = `id, twitter_handle, faction, score, rounds_survived, enemies_eliminated, gpus_remaining, created_at`

// LeaderboardRepo stores leaderboard entries in SQLite.
type LeaderboardRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewLeaderboardRepo creates a LeaderboardRepo.
func NewLeaderboardRepo(db *sql.DB) *LeaderboardRepo {
	return &LeaderboardRepo{db: db, now: time.Now}
}

// Add inserts an entry and returns it as stored.
func (r *LeaderboardRepo) Add(ctx context.Context, e *model.LeaderboardEntry) (*model.LeaderboardEntry, error) {
	out := *e
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	out.CreatedAt = r.now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO leaderboard (`+leaderboardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.TwitterHandle, out.Faction, out.Score, out.RoundsSurvived, out.EnemiesEliminated, out.GPUsRemaining,
		out.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("add leaderboard entry: %w", err)
	}
	return &out, nil
}

// Top returns the best entries, highest score first and earliest first on ties.
func (r *LeaderboardRepo) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard ORDER BY score DESC, created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []model.LeaderboardEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// BestForHandle returns a handle's highest-scoring entry, or nil if none.
func (r *LeaderboardRepo) BestForHandle(ctx context.Context, handle string) (*model.LeaderboardEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard WHERE twitter_handle = ?
		 ORDER BY score DESC, created_at ASC LIMIT 1`, handle)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*model.LeaderboardEntry, error) {
	var e model.LeaderboardEntry
	var created int64
	err := s.Scan(&e.ID, &e.TwitterHandle, &e.Faction, &e.Score, &e.RoundsSurvived, &e.EnemiesEliminated, &e.GPUsRemaining, &created)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan leaderboard entry: %w", err)
	}
	e.CreatedAt = time.Unix(0, created).UTC()
	return &e, nil
}
