package gpuwars

// Summary is what a finished game reports to the leaderboard for one faction.
type Summary struct {
	FactionID         string      `json:"faction_id"`
	Faction           FactionType `json:"faction"`
	RoundsSurvived    int         `json:"rounds_survived"`
	EnemiesEliminated int         `json:"enemies_eliminated"`
	ResourceRemaining int         `json:"gpus_remaining"`
}

// Score is rounds×100 + eliminated enemies×500 + remaining resources.
func (s Summary) Score() int {
	return s.RoundsSurvived*100 + s.EnemiesEliminated*500 + s.ResourceRemaining
}

// Summarize builds the summary of a faction from any game state.
func Summarize(gs *GameState, factionID string) (Summary, bool) {
	f := gs.Faction(factionID)
	if f == nil {
		return Summary{}, false
	}
	rounds := gs.Round
	if f.Eliminated {
		rounds = f.EliminatedRound
	}
	eliminated := 0
	for _, o := range gs.Factions {
		if o.ID != f.ID && o.Eliminated {
			eliminated++
		}
	}
	return Summary{
		FactionID:         f.ID,
		Faction:           f.Type,
		RoundsSurvived:    rounds,
		EnemiesEliminated: eliminated,
		ResourceRemaining: f.ResourceTotal,
	}, true
}
