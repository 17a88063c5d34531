package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/gpu-wars/internal/eventlog"
	"github.com/freeeve/gpu-wars/internal/logger"
	"github.com/freeeve/gpu-wars/internal/model"
	"github.com/freeeve/gpu-wars/internal/repository"
	"github.com/freeeve/gpu-wars/pkg/gpuwars"
)

// maxHolds bounds how many pending target picks and defense responses one
// action may chain before the arena gives up on the game.
const maxHolds = 64

// ArenaConfig configures a single bot-vs-bot game.
type ArenaConfig struct {
	HumanFaction gpuwars.FactionType // seat 0, played through the human protocol
	Handle       string              // leaderboard handle for seat 0
	MaxRounds    int                 // round cap for a draw (default 100)
	Seed         int64               // 0 = random
	DryRun       bool                // skip DB writes
	EventLogDir  string              // "" skips the event log export
	Catalog      *gpuwars.Catalog    // nil uses the built-in catalog
}

// ArenaResult describes the outcome of a completed arena game.
type ArenaResult struct {
	GameID    string            `json:"game_id"`
	Seed      int64             `json:"seed"`
	Winner    string            `json:"winner"` // faction id, gpuwars.NoWinner, or "" for a draw
	Rounds    int               `json:"rounds"`
	Turns     int               `json:"turns"`
	Rejected  int               `json:"rejected"` // bot actions the engine refused
	EventLog  string            `json:"event_log,omitempty"`
	Summaries []gpuwars.Summary `json:"summaries"`
}

// Draw reports whether the game hit the round cap.
func (r *ArenaResult) Draw() bool { return r.Winner == "" }

// RunGame plays a full game with every seat driven by the decision engine,
// saving the match and seat 0's leaderboard entry. Pass nil repos for
// dry-run mode.
func RunGame(
	ctx context.Context,
	cfg ArenaConfig,
	leaderboardRepo repository.LeaderboardRepository,
	matchRepo repository.MatchRepository,
) (*ArenaResult, error) {
	if cfg.MaxRounds == 0 {
		cfg.MaxRounds = 100
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Handle == "" {
		cfg.Handle = "arena-bot"
	}

	brain := NewBrain(cfg.Seed)
	gameID := uuid.NewString()
	gameLog := logger.ForGame(gameID)
	engine, err := gpuwars.NewEngine(gpuwars.Config{
		Catalog:      cfg.Catalog,
		HumanFaction: cfg.HumanFaction,
		Seed:         cfg.Seed,
		GameID:       gameID,
		Logger:       &gameLog,
		Chooser:      brain,
	})
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}

	result := &ArenaResult{GameID: gameID, Seed: cfg.Seed}
	started := time.Now()

	for engine.Phase() != gpuwars.PhaseEnded {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		gs := engine.Snapshot()
		if gs.Round > cfg.MaxRounds {
			log.Info().Str("gameId", gameID).Int("round", gs.Round).Msg("Arena game ended as draw (round limit)")
			break
		}

		if err := playTurn(engine, brain, gs.Current(), gs); err != nil {
			result.Rejected++
			log.Warn().Err(err).Str("gameId", gameID).Str("faction", gs.Current().ID).Msg("Bot action rejected")
		}
		if err := settleHolds(engine, brain); err != nil {
			return nil, err
		}
		if engine.Phase() == gpuwars.PhaseEnded {
			break
		}
		if err := engine.NextTurn(); err != nil {
			return nil, fmt.Errorf("next turn: %w", err)
		}
		result.Turns++
	}

	final := engine.Snapshot()
	result.Winner = final.Winner
	result.Rounds = min(final.Round, cfg.MaxRounds)
	for _, f := range final.Factions {
		s, _ := gpuwars.Summarize(final, f.ID)
		if s.RoundsSurvived > cfg.MaxRounds {
			s.RoundsSurvived = cfg.MaxRounds
		}
		result.Summaries = append(result.Summaries, s)
	}

	if cfg.EventLogDir != "" {
		path, err := eventlog.WriteGame(cfg.EventLogDir, gameID, final.Events)
		if err != nil {
			return nil, fmt.Errorf("write event log: %w", err)
		}
		result.EventLog = path
	}

	if !cfg.DryRun {
		if err := saveArenaGame(ctx, cfg, result, final, started, leaderboardRepo, matchRepo); err != nil {
			return nil, err
		}
	}

	log.Info().Str("gameId", gameID).Str("winner", result.Winner).Int("rounds", result.Rounds).Int("turns", result.Turns).Msg("Arena game finished")
	return result, nil
}

// playTurn asks the brain for the current faction's move and applies it.
func playTurn(engine *gpuwars.Engine, brain *Brain, f *gpuwars.Faction, gs *gpuwars.GameState) error {
	act := brain.DecideAction(f, gs)
	if act == nil {
		return nil
	}
	switch act.Type {
	case ActionAddToQueue:
		return engine.AddCardToQueue(f.ID, act.CardID)
	case ActionExecuteAttack:
		_, err := engine.ExecuteAttack(f.ID, act.TargetID, act.OrganizationID)
		return err
	}
	return fmt.Errorf("unknown action %q", act.Type)
}

// settleHolds answers pending target selections and defense prompts until
// the engine accepts ordinary actions again.
func settleHolds(engine *gpuwars.Engine, brain *Brain) error {
	for range maxHolds {
		gs := engine.Snapshot()
		switch {
		case gs.Phase == gpuwars.PhaseEnded:
			return nil
		case gs.PendingTarget != nil:
			pt := gs.PendingTarget
			var candidates []*gpuwars.Faction
			for _, id := range pt.ValidTargets {
				if c := gs.Faction(id); c != nil && !c.Eliminated {
					candidates = append(candidates, c)
				}
			}
			if len(candidates) == 0 {
				return fmt.Errorf("pending target for %s has no live candidates", pt.ActorID)
			}
			target := brain.SelectTarget(gs.Faction(pt.ActorID), candidates, gs)
			if err := engine.SelectCardTarget(target.ID); err != nil {
				return fmt.Errorf("select target: %w", err)
			}
		case gs.PendingAttack != nil:
			pa := gs.PendingAttack
			v := brain.ShouldPlayDefenseCard(gs.Faction(pa.DefenderID), gs, pa)
			if v.ShouldPlay {
				if err := engine.PlayDefenseCard(pa.DefenderID, v.CardID); err == nil {
					continue
				}
			}
			if err := engine.DeclineDefense(pa.DefenderID); err != nil {
				return fmt.Errorf("decline defense: %w", err)
			}
		default:
			return nil
		}
	}
	return fmt.Errorf("more than %d pending holds in one turn", maxHolds)
}

// saveArenaGame records the match and, when the game ended, seat 0's score.
func saveArenaGame(
	ctx context.Context,
	cfg ArenaConfig,
	result *ArenaResult,
	final *gpuwars.GameState,
	started time.Time,
	leaderboardRepo repository.LeaderboardRepository,
	matchRepo repository.MatchRepository,
) error {
	m := &model.Match{
		ID:           result.GameID,
		Seed:         result.Seed,
		HumanFaction: string(final.Human().Type),
		Winner:       result.Winner,
		Rounds:       result.Rounds,
		Turns:        result.Turns,
		EventCount:   len(final.Events),
		EventLog:     result.EventLog,
	}
	if !result.Draw() {
		finished := time.Now()
		m.FinishedAt = &finished
	}
	if err := matchRepo.Create(ctx, m); err != nil {
		return fmt.Errorf("save match: %w", err)
	}

	if result.Draw() {
		return nil
	}
	s := result.Summaries[0]
	_, err := leaderboardRepo.Add(ctx, &model.LeaderboardEntry{
		TwitterHandle:     model.CleanHandle(cfg.Handle),
		Faction:           string(s.Faction),
		Score:             s.Score(),
		RoundsSurvived:    s.RoundsSurvived,
		EnemiesEliminated: s.EnemiesEliminated,
		GPUsRemaining:     s.ResourceRemaining,
	})
	if err != nil {
		return fmt.Errorf("save leaderboard entry: %w", err)
	}
	log.Debug().Str("gameId", result.GameID).Dur("elapsed", time.Since(started)).Msg("Arena game saved")
	return nil
}
