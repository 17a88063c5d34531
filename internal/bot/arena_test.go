package bot

import (
	"context"
	"testing"

	"github.com/freeeve/gpu-wars/internal/eventlog"
	"github.com/freeeve/gpu-wars/internal/repository/sqlite"
	"github.com/freeeve/gpu-wars/pkg/gpuwars"
)

func TestRunGameDryRun(t *testing.T) {
	cfg := ArenaConfig{
		HumanFaction: gpuwars.Sloth,
		MaxRounds:    40,
		Seed:         42,
		DryRun:       true,
	}

	result, err := RunGame(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("RunGame failed: %v", err)
	}
	if result.Turns == 0 {
		t.Error("expected at least one turn")
	}
	if result.Rounds < 1 || result.Rounds > cfg.MaxRounds {
		t.Errorf("expected rounds in [1, %d], got %d", cfg.MaxRounds, result.Rounds)
	}
	if len(result.Summaries) != 5 {
		t.Fatalf("expected 5 summaries, got %d", len(result.Summaries))
	}
	if result.Summaries[0].Faction != gpuwars.Sloth {
		t.Errorf("expected seat 0 to be SLOTH, got %s", result.Summaries[0].Faction)
	}
	for _, s := range result.Summaries {
		if s.RoundsSurvived > cfg.MaxRounds || s.ResourceRemaining < 0 {
			t.Errorf("implausible summary %+v", s)
		}
	}
	if result.EventLog != "" {
		t.Errorf("expected no event log without a directory, got %s", result.EventLog)
	}
}

func TestRunGameIsReproducible(t *testing.T) {
	cfg := ArenaConfig{HumanFaction: gpuwars.Camel, MaxRounds: 25, Seed: 1234, DryRun: true}

	a, err := RunGame(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunGame(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Winner != b.Winner || a.Turns != b.Turns || a.Rounds != b.Rounds {
		t.Errorf("same seed diverged: %+v vs %+v", a, b)
	}
	for i := range a.Summaries {
		if a.Summaries[i] != b.Summaries[i] {
			t.Errorf("summary %d diverged: %+v vs %+v", i, a.Summaries[i], b.Summaries[i])
		}
	}
}

func TestRunGameRoundCapIsADraw(t *testing.T) {
	result, err := RunGame(context.Background(), ArenaConfig{MaxRounds: 1, Seed: 7, DryRun: true}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Rounds != 1 {
		t.Errorf("expected 1 round, got %d", result.Rounds)
	}
	if result.Winner == "" && !result.Draw() {
		t.Error("an empty winner must report a draw")
	}
}

func TestRunGameWritesEventLog(t *testing.T) {
	dir := t.TempDir()
	result, err := RunGame(context.Background(), ArenaConfig{MaxRounds: 10, Seed: 3, DryRun: true, EventLogDir: dir}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.EventLog != eventlog.PathFor(dir, result.GameID) {
		t.Fatalf("unexpected event log path %s", result.EventLog)
	}
	events, err := eventlog.ReadGame(result.EventLog)
	if err != nil {
		t.Fatalf("read event log: %v", err)
	}
	if len(events) == 0 || events[0].Seq != 1 {
		t.Errorf("expected a log starting at seq 1, got %d events", len(events))
	}
}

func TestRunGamePersists(t *testing.T) {
	db, err := sqlite.Open(sqlite.MemoryPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	lb := sqlite.NewLeaderboardRepo(db)
	matches := sqlite.NewMatchRepo(db)
	ctx := context.Background()

	result, err := RunGame(ctx, ArenaConfig{HumanFaction: gpuwars.Gemaica, Handle: "@arena", MaxRounds: 60, Seed: 11}, lb, matches)
	if err != nil {
		t.Fatalf("RunGame: %v", err)
	}

	m, err := matches.FindByID(ctx, result.GameID)
	if err != nil || m == nil {
		t.Fatalf("expected a stored match, got %v, %v", m, err)
	}
	if m.Seed != 11 || m.HumanFaction != "GEMAICA" || m.Turns != result.Turns {
		t.Errorf("unexpected match %+v", m)
	}

	best, err := lb.BestForHandle(ctx, "arena")
	if err != nil {
		t.Fatal(err)
	}
	if result.Draw() {
		if best != nil {
			t.Errorf("a draw must not post a score, got %+v", best)
		}
		return
	}
	if best == nil || best.Score != result.Summaries[0].Score() {
		t.Errorf("expected seat 0's score %d, got %+v", result.Summaries[0].Score(), best)
	}
}

func TestRunGameHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunGame(ctx, ArenaConfig{Seed: 1, DryRun: true}, nil, nil); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunGameRejectsUnknownFaction(t *testing.T) {
	if _, err := RunGame(context.Background(), ArenaConfig{HumanFaction: "NVIDIA", DryRun: true}, nil, nil); err == nil {
		t.Error("expected an error for an unknown faction")
	}
}
