package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/freeeve/gpu-wars/internal/model"
)

// MatchRepo handles arena match database operations.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Create inserts a match, assigning an ID when empty.
func (r *MatchRepo) Create(ctx context.Context, m *model.Match) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO matches (id, seed, human_faction, winner, rounds, turns, event_count, event_log, finished_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), $9)
		 RETURNING created_at`,
		m.ID, m.Seed, m.HumanFaction, m.Winner, m.Rounds, m.Turns, m.EventCount, m.EventLog, m.FinishedAt,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

// FindByID returns a match by ID, or nil if not found.
func (r *MatchRepo) FindByID(ctx context.Context, id string) (*model.Match, error) {
	var m model.Match
	var winner, eventLog sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, seed, human_faction, winner, rounds, turns, event_count, event_log, created_at, finished_at
		 FROM matches WHERE id = $1`, id,
	).Scan(&m.ID, &m.Seed, &m.HumanFaction, &winner, &m.Rounds, &m.Turns, &m.EventCount, &eventLog, &m.CreatedAt, &m.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match: %w", err)
	}
	m.Winner = winner.String
	m.EventLog = eventLog.String
	return &m, nil
}
