package model

import (
	"strings"
	"time"
)

// LeaderboardEntry is one submitted score.
type LeaderboardEntry struct {
	ID                string    `json:"id"`
	TwitterHandle     string    `json:"twitter_handle"`
	Faction           string    `json:"faction"`
	Score             int       `json:"score"`
	RoundsSurvived    int       `json:"rounds_survived"`
	EnemiesEliminated int       `json:"enemies_eliminated"`
	GPUsRemaining     int       `json:"gpus_remaining"`
	CreatedAt         time.Time `json:"created_at"`
}

// Match records one finished arena game.
type Match struct {
	ID           string     `json:"id"`
	Seed         int64      `json:"seed"`
	HumanFaction string     `json:"human_faction"`
	Winner       string     `json:"winner,omitempty"` // faction id, NONE, or empty for a draw
	Rounds       int        `json:"rounds"`
	Turns        int        `json:"turns"`
	EventCount   int        `json:"event_count"`
	EventLog     string     `json:"event_log,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// CleanHandle strips surrounding space and a leading @ from a handle.
func CleanHandle(h string) string {
	return strings.TrimPrefix(strings.TrimSpace(h), "@")
}
