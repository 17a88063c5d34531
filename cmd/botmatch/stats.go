package main

import (
	"github.com/freeeve/gpu-wars/internal/bot"
	"github.com/freeeve/gpu-wars/pkg/gpuwars"
)

// factionStats aggregates one faction's results across games.
type factionStats struct {
	Games      int `json:"games"`
	Wins       int `json:"wins"`
	Draws      int `json:"draws"`
	Survived   int `json:"survived"`
	TotalScore int `json:"total_score"`
}

// AvgScore is the mean leaderboard score per game played.
func (s *factionStats) AvgScore() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.Games)
}

// tally aggregates per-faction stats over completed games; nil results are
// failed games and are skipped. A faction survived a decided game it did not
// win if it lasted every round.
func tally(results []*bot.ArenaResult) (map[gpuwars.FactionType]*factionStats, int) {
	byFaction := make(map[gpuwars.FactionType]*factionStats)
	for _, ft := range gpuwars.AllFactionTypes() {
		byFaction[ft] = &factionStats{}
	}

	completed := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		for _, sum := range r.Summaries {
			s, ok := byFaction[sum.Faction]
			if !ok {
				s = &factionStats{}
				byFaction[sum.Faction] = s
			}
			s.Games++
			s.TotalScore += sum.Score()
			switch {
			case r.Winner == sum.FactionID:
				s.Wins++
			case r.Draw():
				s.Draws++
			case sum.RoundsSurvived >= r.Rounds:
				s.Survived++
			}
		}
	}
	return byFaction, completed
}
