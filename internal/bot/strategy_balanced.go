package bot

import "github.com/freeeve/gpu-wars/pkg/gpuwars"

// BalancedStrategy weighs several factors for targets and mixes card types.
type BalancedStrategy struct{}

func (BalancedStrategy) Name() string { return "balanced" }

// SelectTarget scores each candidate additively:
//
//	+100 building below 30% (+50 below 50%)
//	+5% of resources
//	+50 holding a ready attack
//	-80 power above 1.5x the candidate mean
func (BalancedStrategy) SelectTarget(_ *gpuwars.Faction, candidates []*gpuwars.Faction, _ *gpuwars.GameState, _ Randomizer) *gpuwars.Faction {
	total := 0
	for _, c := range candidates {
		total += power(c)
	}
	mean := float64(total) / float64(len(candidates))

	return maxBy(candidates, func(f *gpuwars.Faction) float64 {
		score := 0.0
		switch hp := f.HealthPercent(); {
		case hp < 0.3:
			score += 100
		case hp < 0.5:
			score += 50
		}
		score += float64(f.ResourceTotal) * 0.05
		if f.HasReadyAttack() {
			score += 50
		}
		if float64(power(f)) > mean*1.5 {
			score -= 80
		}
		return score
	})
}

// SelectCard prefers action plans once two organizations are in play; in
// peacetime it flips a coin between propaganda and organizations.
func (BalancedStrategy) SelectCard(self *gpuwars.Faction, gs *gpuwars.GameState, r Randomizer) gpuwars.Card {
	if len(self.Organizations) >= maxOrganizations {
		if c := firstOfKind(self.Hand, gpuwars.KindActionPlan); c != nil {
			return c
		}
	}
	if gs.Phase == gpuwars.PhasePeacetime {
		prop := firstOfKind(self.Hand, gpuwars.KindPropaganda)
		org := firstOfKind(self.Hand, gpuwars.KindOrganization)
		switch {
		case prop != nil && org != nil:
			if r.Float64() < 0.5 {
				return prop
			}
			return org
		case prop != nil:
			return prop
		case org != nil:
			return org
		}
	}
	if c := organizationIfRoom(self); c != nil {
		return c
	}
	return firstCard(self.Hand)
}
