package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/freeeve/gpu-wars/internal/model"
)

// MatchRepo stores arena matches in SQLite.
type MatchRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db, now: time.Now}
}

// Create inserts a match, assigning an ID when empty.
func (r *MatchRepo) Create(ctx context.Context, m *model.Match) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = r.now().UTC()
	var finished sql.NullInt64
	if m.FinishedAt != nil {
		finished = sql.NullInt64{Int64: m.FinishedAt.UnixNano(), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO matches (id, seed, human_faction, winner, rounds, turns, event_count, event_log, created_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Seed, m.HumanFaction, m.Winner, m.Rounds, m.Turns, m.EventCount, m.EventLog, m.CreatedAt.UnixNano(), finished,
	)
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

// FindByID returns a match by ID, or nil if not found.
func (r *MatchRepo) FindByID(ctx context.Context, id string) (*model.Match, error) {
	var m model.Match
	var created int64
	var finished sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, seed, human_faction, winner, rounds, turns, event_count, event_log, created_at, finished_at
		 FROM matches WHERE id = ?`, id,
	).Scan(&m.ID, &m.Seed, &m.HumanFaction, &m.Winner, &m.Rounds, &m.Turns, &m.EventCount, &m.EventLog, &created, &finished)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match: %w", err)
	}
	m.CreatedAt = time.Unix(0, created).UTC()
	if finished.Valid {
		t := time.Unix(0, finished.Int64).UTC()
		m.FinishedAt = &t
	}
	return &m, nil
}
