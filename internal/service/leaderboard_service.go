package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/gpu-wars/internal/model"
	"github.com/freeeve/gpu-wars/internal/repository"
	"github.com/freeeve/gpu-wars/pkg/gpuwars"
)

var (
	ErrMissingFields  = errors.New("missing required fields")
	ErrInvalidFaction = errors.New("invalid faction")
	ErrInvalidSummary = errors.New("summary values must not be negative")
)

// Leaderboard paging and broadcast settings.
const (
	DefaultLimit = 20
	MaxLimit     = 100

	LeaderboardChannel    = "leaderboard"
	EventLeaderboardEntry = "leaderboard_updated"
)

// Submission is a finished game's summary posted by a player.
type Submission struct {
	TwitterHandle     string `json:"twitter_handle"`
	Faction           string `json:"faction"`
	RoundsSurvived    int    `json:"rounds_survived"`
	EnemiesEliminated int    `json:"enemies_eliminated"`
	GPUsRemaining     int    `json:"gpus_remaining"`
}

// LeaderboardService validates, scores, stores and ranks submissions.
type LeaderboardService struct {
	repo        repository.LeaderboardRepository
	cache       repository.LeaderboardCache
	broadcaster Broadcaster

	mu     sync.Mutex
	warm   bool
	cached int    // entries held by the cache while warm
	writes uint64 // bumped on every stored submission
}

// NewLeaderboardService creates a LeaderboardService. cache may be nil.
func NewLeaderboardService(repo repository.LeaderboardRepository, cache repository.LeaderboardCache, b Broadcaster) *LeaderboardService {
	if b == nil {
		b = NoopBroadcaster{}
	}
	return &LeaderboardService{repo: repo, cache: cache, broadcaster: b}
}

// SubmitScore stores a submission. The score is always recomputed from the
// summary fields; any client-side score is ignored.
func (s *LeaderboardService) SubmitScore(ctx context.Context, sub Submission) (*model.LeaderboardEntry, error) {
	handle := model.CleanHandle(sub.TwitterHandle)
	if handle == "" || sub.Faction == "" {
		return nil, ErrMissingFields
	}
	faction, ok := parseFaction(sub.Faction)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFaction, sub.Faction)
	}
	if sub.RoundsSurvived < 0 || sub.EnemiesEliminated < 0 || sub.GPUsRemaining < 0 {
		return nil, ErrInvalidSummary
	}

	summary := gpuwars.Summary{
		Faction:           faction,
		RoundsSurvived:    sub.RoundsSurvived,
		EnemiesEliminated: sub.EnemiesEliminated,
		ResourceRemaining: sub.GPUsRemaining,
	}
	entry, err := s.repo.Add(ctx, &model.LeaderboardEntry{
		TwitterHandle:     handle,
		Faction:           string(faction),
		Score:             summary.Score(),
		RoundsSurvived:    sub.RoundsSurvived,
		EnemiesEliminated: sub.EnemiesEliminated,
		GPUsRemaining:     sub.GPUsRemaining,
	})
	if err != nil {
		return nil, err
	}

	if warm := s.recordWrite(); s.cache != nil && warm {
		if err := s.cache.Push(ctx, *entry, MaxLimit); err != nil {
			log.Warn().Err(err).Str("entryId", entry.ID).Msg("Leaderboard cache push failed")
			s.setWarm(false)
		} else {
			s.mu.Lock()
			s.cached = min(s.cached+1, MaxLimit)
			s.mu.Unlock()
		}
	}

	log.Info().Str("handle", handle).Str("faction", entry.Faction).Int("score", entry.Score).Msg("Score submitted")
	s.broadcaster.BroadcastEvent(LeaderboardChannel, EventLeaderboardEntry, entry)
	return entry, nil
}

// Top returns the best entries. limit defaults to 20 and is capped at 100.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	limit = clampLimit(limit)
	if s.cache != nil {
		if warm, cached := s.cacheState(); warm {
			entries, err := s.cache.Top(ctx, limit)
			if err == nil && len(entries) == min(limit, cached) {
				return entries, nil
			}
			if err != nil {
				log.Warn().Err(err).Msg("Leaderboard cache read failed")
			}
		}
	}

	gen := s.writeGen()
	entries, err := s.repo.Top(ctx, MaxLimit)
	if err != nil {
		return nil, err
	}
	s.rewarm(ctx, entries, gen)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// BestForHandle returns a player's best entry, or nil when they have none.
func (s *LeaderboardService) BestForHandle(ctx context.Context, handle string) (*model.LeaderboardEntry, error) {
	handle = model.CleanHandle(handle)
	if handle == "" {
		return nil, ErrMissingFields
	}
	return s.repo.BestForHandle(ctx, handle)
}

// Invalidate drops the cache after entries were written around the service,
// e.g. by the arena; the next read rebuilds it from the store.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.warm = false
	s.writes++
	s.mu.Unlock()
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("Leaderboard cache invalidate failed")
	}
}

// rewarm replaces the cache contents with the store's current top entries,
// read when the write generation was gen. Until a rewarm succeeds the cache
// is bypassed, so it never holds a partial ranking. A submission stored after
// the read leaves the cache cold, since its entry may be missing.
func (s *LeaderboardService) rewarm(ctx context.Context, top []model.LeaderboardEntry, gen uint64) {
	if s.cache == nil {
		return
	}
	s.setWarm(false)
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("Leaderboard cache invalidate failed")
		s.setWarm(false)
		return
	}
	for _, e := range top {
		if err := s.cache.Push(ctx, e, MaxLimit); err != nil {
			log.Warn().Err(err).Msg("Leaderboard cache warm failed")
			s.setWarm(false)
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writes != gen {
		log.Debug().Msg("Leaderboard changed during cache warm, staying cold")
		return
	}
	s.warm = true
	s.cached = len(top)
}

// recordWrite bumps the write generation and reports whether the cache is warm.
func (s *LeaderboardService) recordWrite() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	return s.warm
}

func (s *LeaderboardService) writeGen() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *LeaderboardService) cacheState() (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warm, s.cached
}

func (s *LeaderboardService) setWarm(v bool) {
	s.mu.Lock()
	s.warm = v
	s.mu.Unlock()
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func parseFaction(s string) (gpuwars.FactionType, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, t := range gpuwars.AllFactionTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}
