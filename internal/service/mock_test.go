package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/freeeve/gpu-wars/internal/model"
)

type mockLeaderboardRepo struct {
	entries []model.LeaderboardEntry
	clock    time.Time
	failAdd  error
	topCalls int
	afterTop func() // runs once, after the next Top has read the entries
}

func newMockLeaderboardRepo() *mockLeaderboardRepo {
	return &mockLeaderboardRepo{clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *mockLeaderboardRepo) Add(_ context.Context, e *model.LeaderboardEntry) (*model.LeaderboardEntry, error) {
	if m.failAdd != nil {
		return nil, m.failAdd
	}
	out := *e
	out.ID = fmt.Sprintf("entry-%d", len(m.entries)+1)
	m.clock = m.clock.Add(time.Second)
	out.CreatedAt = m.clock
	m.entries = append(m.entries, out)
	return &out, nil
}

func (m *mockLeaderboardRepo) sorted() []model.LeaderboardEntry {
	out := append([]model.LeaderboardEntry(nil), m.entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *mockLeaderboardRepo) Top(_ context.Context, limit int) ([]model.LeaderboardEntry, error) {
	m.topCalls++
	out := m.sorted()
	if len(out) > limit {
		out = out[:limit]
	}
	if hook := m.afterTop; hook != nil {
		m.afterTop = nil
		hook()
	}
	return out, nil
}

func (m *mockLeaderboardRepo) BestForHandle(_ context.Context, handle string) (*model.LeaderboardEntry, error) {
	for _, e := range m.sorted() {
		if e.TwitterHandle == handle {
			return &e, nil
		}
	}
	return nil, nil
}

// mockCache keeps entries in rank order like the Redis cache.
type mockCache struct {
	entries  []model.LeaderboardEntry
	topCalls int
	failTop  bool
}

func (c *mockCache) Push(_ context.Context, e model.LeaderboardEntry, keep int) error {
	c.entries = append(c.entries, e)
	sort.SliceStable(c.entries, func(i, j int) bool {
		if c.entries[i].Score != c.entries[j].Score {
			return c.entries[i].Score > c.entries[j].Score
		}
		return c.entries[i].CreatedAt.Before(c.entries[j].CreatedAt)
	})
	if len(c.entries) > keep {
		c.entries = c.entries[:keep]
	}
	return nil
}

func (c *mockCache) Top(_ context.Context, limit int) ([]model.LeaderboardEntry, error) {
	c.topCalls++
	if c.failTop {
		return nil, errors.New("cache down")
	}
	out := c.entries
	if len(out) > limit {
		out = out[:limit]
	}
	return append([]model.LeaderboardEntry(nil), out...), nil
}

func (c *mockCache) Invalidate(context.Context) error {
	c.entries = nil
	return nil
}

type broadcastCall struct {
	channel, eventType string
	data               any
}

type recordingBroadcaster struct {
	mu    sync.Mutex
	calls []broadcastCall
}

func (b *recordingBroadcaster) BroadcastEvent(channel, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{channel, eventType, data})
}
