package bot

import "github.com/freeeve/gpu-wars/pkg/gpuwars"

// AggressiveStrategy builds attack capability and goes after the strongest
// lab, finishing off wounded ones first.
type AggressiveStrategy struct{}

func (AggressiveStrategy) Name() string { return "aggressive" }

// SelectTarget prefers the richest wounded candidate (building below 30% or
// resources below half their starting value), else the strongest overall.
func (AggressiveStrategy) SelectTarget(_ *gpuwars.Faction, candidates []*gpuwars.Faction, _ *gpuwars.GameState, _ Randomizer) *gpuwars.Faction {
	var wounded []*gpuwars.Faction
	for _, c := range candidates {
		if c.HealthPercent() < 0.3 || float64(c.ResourceTotal) < float64(c.StartingResources)*0.5 {
			wounded = append(wounded, c)
		}
	}
	if len(wounded) > 0 {
		return maxBy(wounded, func(f *gpuwars.Faction) float64 { return float64(f.ResourceTotal) })
	}
	return maxBy(candidates, func(f *gpuwars.Faction) float64 { return float64(power(f)) })
}

// SelectCard queues organizations up to the cap, then action plans.
func (AggressiveStrategy) SelectCard(self *gpuwars.Faction, _ *gpuwars.GameState, _ Randomizer) gpuwars.Card {
	if c := organizationIfRoom(self); c != nil {
		return c
	}
	if c := firstOfKind(self.Hand, gpuwars.KindActionPlan); c != nil {
		return c
	}
	return firstCard(self.Hand)
}
