package bot

import "github.com/freeeve/gpu-wars/pkg/gpuwars"

// repairThreshold is the building health below which a defensive bot
// queues repairs first.
const repairThreshold = 0.6

// DefensiveStrategy repairs and fortifies before it builds, and strikes at
// whoever is armed.
type DefensiveStrategy struct{}

func (DefensiveStrategy) Name() string { return "defensive" }

// SelectTarget picks the weakest candidate holding a ready attack, scoring
// building HP plus 30% of resources; with no armed candidate it picks the
// one with the fewest resources.
func (DefensiveStrategy) SelectTarget(_ *gpuwars.Faction, candidates []*gpuwars.Faction, _ *gpuwars.GameState, _ Randomizer) *gpuwars.Faction {
	var threats []*gpuwars.Faction
	for _, c := range candidates {
		if c.HasReadyAttack() {
			threats = append(threats, c)
		}
	}
	if len(threats) > 0 {
		return minBy(threats, func(f *gpuwars.Faction) float64 {
			return float64(f.BuildingHP) + float64(f.ResourceTotal)*0.3
		})
	}
	return minBy(candidates, func(f *gpuwars.Faction) float64 { return float64(f.ResourceTotal) })
}

// SelectCard queues a repair plan when the building is below 60%, then a
// ward plan, then an organization while under the cap. Defense cards stay in
// hand where they can intercept attacks.
func (DefensiveStrategy) SelectCard(self *gpuwars.Faction, _ *gpuwars.GameState, _ Randomizer) gpuwars.Card {
	if self.HealthPercent() < repairThreshold {
		if c := firstSupportPlan(self.Hand, func(p *gpuwars.ActionPlanCard) bool { return p.Heal > 0 }); c != nil {
			return c
		}
	}
	if c := firstSupportPlan(self.Hand, func(p *gpuwars.ActionPlanCard) bool { return p.Ward > 0 }); c != nil {
		return c
	}
	if c := organizationIfRoom(self); c != nil {
		return c
	}
	for _, c := range self.Hand {
		if c.Kind() != gpuwars.KindDefense {
			return c
		}
	}
	return firstCard(self.Hand)
}

func firstSupportPlan(hand []gpuwars.Card, match func(*gpuwars.ActionPlanCard) bool) gpuwars.Card {
	for _, c := range hand {
		if p, ok := c.(*gpuwars.ActionPlanCard); ok && match(p) {
			return c
		}
	}
	return nil
}
