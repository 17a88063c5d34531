package bot

import "github.com/freeeve/gpu-wars/pkg/gpuwars"

// PropagandaStrategy runs information campaigns while peace holds and arms
// up once the shooting starts.
type PropagandaStrategy struct{}

func (PropagandaStrategy) Name() string { return "propaganda" }

// SelectTarget maximizes resources minus 200 per organization in play:
// rich labs without much military.
func (PropagandaStrategy) SelectTarget(_ *gpuwars.Faction, candidates []*gpuwars.Faction, _ *gpuwars.GameState, _ Randomizer) *gpuwars.Faction {
	return maxBy(candidates, func(f *gpuwars.Faction) float64 {
		return float64(f.ResourceTotal - 200*len(f.Organizations))
	})
}

func (PropagandaStrategy) SelectCard(self *gpuwars.Faction, gs *gpuwars.GameState, _ Randomizer) gpuwars.Card {
	if gs.Phase == gpuwars.PhasePeacetime {
		if c := firstOfKind(self.Hand, gpuwars.KindPropaganda); c != nil {
			return c
		}
	}
	if c := organizationIfRoom(self); c != nil {
		return c
	}
	if c := firstOfKind(self.Hand, gpuwars.KindActionPlan); c != nil {
		return c
	}
	return firstCard(self.Hand)
}
