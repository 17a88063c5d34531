package bot

import (
	"github.com/freeeve/gpu-wars/pkg/gpuwars"
)

// maxOrganizations caps how many organizations a bot keeps in play before
// it stops queueing new ones.
const maxOrganizations = 2

// Strategy picks targets and cards for one faction archetype. Strategies
// read snapshots only and never mutate them.
type Strategy interface {
	Name() string
	// SelectTarget picks one of candidates, which is never empty.
	SelectTarget(self *gpuwars.Faction, candidates []*gpuwars.Faction, gs *gpuwars.GameState, r Randomizer) *gpuwars.Faction
	// SelectCard picks a hand card to queue, or nil.
	SelectCard(self *gpuwars.Faction, gs *gpuwars.GameState, r Randomizer) gpuwars.Card
}

// StrategyForArchetype returns the strategy for a faction archetype.
func StrategyForArchetype(a gpuwars.Archetype) Strategy {
	switch a {
	case gpuwars.Aggressive:
		return AggressiveStrategy{}
	case gpuwars.Defensive:
		return DefensiveStrategy{}
	case gpuwars.Chaos:
		return ChaosStrategy{}
	case gpuwars.Propaganda:
		return PropagandaStrategy{}
	default:
		return BalancedStrategy{}
	}
}

// --- ChaosStrategy ---

// ChaosStrategy picks targets and cards uniformly at random.
type ChaosStrategy struct{}

func (ChaosStrategy) Name() string { return "chaos" }

func (ChaosStrategy) SelectTarget(_ *gpuwars.Faction, candidates []*gpuwars.Faction, _ *gpuwars.GameState, r Randomizer) *gpuwars.Faction {
	return candidates[r.Intn(len(candidates))]
}

func (ChaosStrategy) SelectCard(self *gpuwars.Faction, _ *gpuwars.GameState, r Randomizer) gpuwars.Card {
	if len(self.Hand) == 0 {
		return nil
	}
	return self.Hand[r.Intn(len(self.Hand))]
}

// --- helpers shared by the strategies ---

func firstOfKind(hand []gpuwars.Card, kind gpuwars.CardKind) gpuwars.Card {
	for _, c := range hand {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

func firstCard(hand []gpuwars.Card) gpuwars.Card {
	if len(hand) == 0 {
		return nil
	}
	return hand[0]
}

// organizationIfRoom returns the first organization in hand while the
// faction holds fewer than maxOrganizations.
func organizationIfRoom(self *gpuwars.Faction) gpuwars.Card {
	if len(self.Organizations) >= maxOrganizations {
		return nil
	}
	return firstOfKind(self.Hand, gpuwars.KindOrganization)
}

func power(f *gpuwars.Faction) int {
	return f.ResourceTotal + f.BuildingHP
}

// maxBy returns the candidate with the highest score; ties keep the earliest.
func maxBy(candidates []*gpuwars.Faction, score func(*gpuwars.Faction) float64) *gpuwars.Faction {
	best := candidates[0]
	bestScore := score(best)
	for _, c := range candidates[1:] {
		if s := score(c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// minBy returns the candidate with the lowest score; ties keep the earliest.
func minBy(candidates []*gpuwars.Faction, score func(*gpuwars.Faction) float64) *gpuwars.Faction {
	return maxBy(candidates, func(f *gpuwars.Faction) float64 { return -score(f) })
}
