package bot

import (
	"strings"

	"github.com/freeeve/gpu-wars/pkg/gpuwars"
)

// fixedRand returns f from Float64 and n (clamped) from Intn.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int   { return min(r.n, n-1) }

func lab(id string, arch gpuwars.Archetype, resources, hp int) *gpuwars.Faction {
	return &gpuwars.Faction{
		ID:                id,
		Type:              gpuwars.FactionType(strings.ToUpper(id)),
		Name:              id,
		Archetype:         arch,
		ResourceTotal:     resources,
		StartingResources: resources,
		BuildingHP:        hp,
		MaxBuildingHP:     100,
	}
}

func state(phase gpuwars.Phase, factions ...*gpuwars.Faction) *gpuwars.GameState {
	return &gpuwars.GameState{ID: "g", Phase: phase, Round: 1, Factions: factions}
}

func readyOrg(id string) *gpuwars.OrganizationCard {
	return &gpuwars.OrganizationCard{
		CardBase: gpuwars.CardBase{ID: id, Name: "Drone Swarm"},
		Category: gpuwars.CategoryThrowing,
		Attached: &gpuwars.ActionPlanCard{
			CardBase: gpuwars.CardBase{ID: id + "-plan", Name: "Rack Toss"},
			Category: gpuwars.CategoryThrowing,
			Damage:   20,
			Target:   gpuwars.PoolBuilding,
		},
	}
}

func emptyOrg(id string) *gpuwars.OrganizationCard {
	return &gpuwars.OrganizationCard{CardBase: gpuwars.CardBase{ID: id}, Category: gpuwars.CategoryProtest}
}

func orgCard(id string) gpuwars.Card { return emptyOrg(id) }

func planCard(id string) gpuwars.Card {
	return &gpuwars.ActionPlanCard{CardBase: gpuwars.CardBase{ID: id}, Category: gpuwars.CategoryProtest, Damage: 10, Target: gpuwars.PoolBuilding}
}

func healCard(id string) gpuwars.Card {
	return &gpuwars.ActionPlanCard{CardBase: gpuwars.CardBase{ID: id}, Category: gpuwars.CategoryPrayer, Heal: 20}
}

func wardCard(id string) gpuwars.Card {
	return &gpuwars.ActionPlanCard{CardBase: gpuwars.CardBase{ID: id}, Category: gpuwars.CategoryPrayer, Ward: 0.5}
}

func propCard(id string) gpuwars.Card {
	return &gpuwars.PropagandaCard{CardBase: gpuwars.CardBase{ID: id}, Steal: 15}
}

func covertCard(id string) gpuwars.Card {
	return &gpuwars.CovertOpCard{CardBase: gpuwars.CardBase{ID: id}, Effect: gpuwars.EffectDamageResources, Amount: 20}
}

func defenseCard(id string, blocks gpuwars.Category, full bool) *gpuwars.DefenseCard {
	d := &gpuwars.DefenseCard{CardBase: gpuwars.CardBase{ID: id}, Blocks: blocks, FullBlock: full}
	if !full {
		d.Reduction = 0.5
	}
	return d
}

