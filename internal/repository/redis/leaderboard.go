package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/freeeve/gpu-wars/internal/model"
)

// Leaderboard keys: a sorted set of entry ids ranked by score and a hash of
// entry JSON keyed by id.
const (
	rankKey    = "leaderboard:rank"
	entriesKey = "leaderboard:entries"
)

// rankScore orders by score, then older entries first. The fraction shrinks
// as created_at grows, at one-second resolution.
func rankScore(e model.LeaderboardEntry) float64 {
	return float64(e.Score) + (1 - float64(e.CreatedAt.Unix())/1e10)
}

// Push caches an entry and trims the ranking to the best keep entries.
func (c *Client) Push(ctx context.Context, e model.LeaderboardEntry, keep int) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, entriesKey, e.ID, data)
		pipe.ZAdd(ctx, rankKey, redis.Z{Score: rankScore(e), Member: e.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("push entry: %w", err)
	}
	if keep <= 0 {
		return nil
	}

	stale, err := c.rdb.ZRange(ctx, rankKey, 0, int64(-keep-1)).Result()
	if err != nil {
		return fmt.Errorf("list stale entries: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByRank(ctx, rankKey, 0, int64(-keep-1))
		pipe.HDel(ctx, entriesKey, stale...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("trim leaderboard: %w", err)
	}
	return nil
}

// Top returns up to limit cached entries in rank order. An empty cache
// returns nil, nil.
func (c *Client) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	ranked, err := c.rdb.ZRevRangeWithScores(ctx, rankKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("rank range: %w", err)
	}
	if len(ranked) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(ranked))
	for _, z := range ranked {
		ids = append(ids, z.Member.(string))
	}
	// The range may cut through entries that share a score and a second;
	// pull in every entry with the boundary score so the sort below decides.
	if len(ranked) == limit {
		tied, err := c.tiedWith(ctx, ranked[len(ranked)-1].Score)
		if err != nil {
			return nil, err
		}
		ids = appendMissing(ids, tied)
	}
	vals, err := c.rdb.HMGet(ctx, entriesKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	entries := make([]model.LeaderboardEntry, 0, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("entry %s missing from cache", ids[i])
		}
		var e model.LeaderboardEntry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, fmt.Errorf("unmarshal entry %s: %w", ids[i], err)
		}
		entries = append(entries, e)
	}
	// Same-second ties share a rank score; created_at keeps full precision.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// tiedWith lists the ids whose entry score equals the one encoded in rank.
func (c *Client) tiedWith(ctx context.Context, rank float64) ([]string, error) {
	score := math.Floor(rank)
	ids, err := c.rdb.ZRangeByScore(ctx, rankKey, &redis.ZRangeBy{
		Min: strconv.FormatFloat(score, 'f', -1, 64),
		Max: "(" + strconv.FormatFloat(score+1, 'f', -1, 64),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("tied range: %w", err)
	}
	return ids, nil
}

func appendMissing(ids, more []string) []string {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	for _, id := range more {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// Invalidate drops the cached leaderboard.
func (c *Client) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, rankKey, entriesKey).Err()
}
