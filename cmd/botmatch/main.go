package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/gpu-wars/internal/bot"
	"github.com/freeeve/gpu-wars/internal/repository"
	"github.com/freeeve/gpu-wars/internal/repository/postgres"
	"github.com/freeeve/gpu-wars/internal/repository/sqlite"
	"github.com/freeeve/gpu-wars/pkg/gpuwars"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		human       string
		handle      string
		numGames    int
		workers     int
		dbURL       string
		maxRounds   int
		seed        int64
		dryRun      bool
		jsonOut     bool
		eventDir    string
		catalogPath string
		verbose     bool
	)

	flag.StringVar(&human, "human", string(gpuwars.OpenG), "Faction in seat 0 (OPENG, CLARISA, GEMAICA, SLOTH, CAMEL)")
	flag.StringVar(&handle, "handle", "arena-bot", "Leaderboard handle for seat 0")
	flag.IntVar(&numGames, "n", 1, "Number of games to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel games)")
	flag.StringVar(&dbURL, "db", "", "postgres:// URL or SQLite file path (or use DATABASE_URL env)")
	flag.IntVar(&maxRounds, "max-rounds", 100, "Max rounds before draw")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = random)")
	flag.BoolVar(&dryRun, "dry-run", false, "Skip database writes")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.StringVar(&eventDir, "events", "", "Directory for zstd event logs")
	flag.StringVar(&catalogPath, "catalog", "", "Card catalog YAML (default: built-in)")
	flag.BoolVar(&verbose, "v", false, "Log engine events")

	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var catalog *gpuwars.Catalog
	if catalogPath != "" {
		var err error
		if catalog, err = gpuwars.LoadCatalog(catalogPath); err != nil {
			log.Fatal().Err(err).Msg("Catalog load failed")
		}
	}

	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		dbURL = "data/gpu-wars.db"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	var lbRepo repository.LeaderboardRepository
	var matchRepo repository.MatchRepository
	if !dryRun {
		var closeDB func() error
		var err error
		lbRepo, matchRepo, closeDB, err = openRepos(dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer closeDB()
	}

	results := make([]*bot.ArenaResult, numGames)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, max(workers, 1))
	errCount := 0

	for i := 0; i < numGames; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			gameSeed := seed
			if seed != 0 {
				gameSeed = seed + int64(idx)
			}

			cfg := bot.ArenaConfig{
				HumanFaction: gpuwars.FactionType(strings.ToUpper(human)),
				Handle:       handle,
				MaxRounds:    maxRounds,
				Seed:         gameSeed,
				DryRun:       dryRun,
				EventLogDir:  eventDir,
				Catalog:      catalog,
			}

			result, err := bot.RunGame(ctx, cfg, lbRepo, matchRepo)
			if err != nil {
				log.Error().Err(err).Int("game", idx+1).Msg("Game failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()

			log.Info().Int("game", idx+1).Str("winner", result.Winner).Int("rounds", result.Rounds).Int("turns", result.Turns).Msg("Game completed")
		}(i)
	}

	wg.Wait()

	if jsonOut {
		printJSON(results, numGames, errCount)
	} else {
		printSummary(results, maxRounds, errCount, dryRun)
	}
}

// openRepos picks Postgres for postgres:// URLs and SQLite otherwise.
func openRepos(dsn string) (repository.LeaderboardRepository, repository.MatchRepository, func() error, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err := postgres.Connect(dsn)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return postgres.NewLeaderboardRepo(db), postgres.NewMatchRepo(db), db.Close, nil
	}
	db, err := sqlite.Open(dsn)
	if err != nil {
		return nil, nil, nil, err
	}
	return sqlite.NewLeaderboardRepo(db), sqlite.NewMatchRepo(db), db.Close, nil
}

func printSummary(results []*bot.ArenaResult, maxRounds, errCount int, dryRun bool) {
	byFaction, completed := tally(results)

	fmt.Printf("\nResults (%d games, max rounds %d):\n", completed, maxRounds)
	if errCount > 0 {
		fmt.Printf("  (%d games failed)\n", errCount)
	}

	for _, ft := range gpuwars.AllFactionTypes() {
		s := byFaction[ft]
		fmt.Printf("  %-8s:  %d wins, %d draws, %d survived  -- avg score: %.1f\n",
			ft, s.Wins, s.Draws, s.Survived, s.AvgScore())
	}

	if !dryRun && completed > 0 {
		fmt.Printf("\n%d matches saved to the database\n", completed)
	}
}

func printJSON(results []*bot.ArenaResult, total, errCount int) {
	byFaction, _ := tally(results)
	out := struct {
		Total    int                                   `json:"total"`
		Errors   int                                   `json:"errors"`
		Factions map[gpuwars.FactionType]*factionStats `json:"factions"`
		Results  []*bot.ArenaResult                    `json:"results"`
	}{
		Total:    total,
		Errors:   errCount,
		Factions: byFaction,
		Results:  results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
