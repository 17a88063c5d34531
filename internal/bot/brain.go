package bot

import (
	"math/rand"
	"time"

	"github.com/freeeve/gpu-wars/pkg/gpuwars"
)

// attackProbability is the chance a bot with a loaded organization attacks
// instead of queueing a card.
const attackProbability = 0.70

// Damage bands used by the defense verdict.
const (
	trivialDamage = 10
	heavyDamage   = 30
)

// ActionType is the kind of move a bot decided on.
type ActionType string

const (
	ActionAddToQueue    ActionType = "ADD_TO_QUEUE"
	ActionExecuteAttack ActionType = "EXECUTE_ATTACK"
)

// Action is one bot move. CardID is set for ADD_TO_QUEUE; TargetID and
// OrganizationID for EXECUTE_ATTACK.
type Action struct {
	Type           ActionType
	CardID         string
	TargetID       string
	OrganizationID string
}

// DefenseVerdict is the answer to a pending attack.
type DefenseVerdict struct {
	ShouldPlay bool
	CardID     string
}

// Brain makes decisions for agent-controlled factions from state snapshots.
// It never mutates the state it is given.
type Brain struct {
	rng Randomizer
}

// NewBrain returns a brain with its own source seeded from seed. A zero
// seed picks one from the clock.
func NewBrain(seed int64) *Brain {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Brain{rng: rand.New(rand.NewSource(seed))}
}

// NewBrainWithRand returns a brain drawing from r.
func NewBrainWithRand(r Randomizer) *Brain {
	return &Brain{rng: r}
}

// DecideAction returns the faction's next move, or nil when it has nothing
// to do. With no opponent left it queues its first card.
func (b *Brain) DecideAction(f *gpuwars.Faction, gs *gpuwars.GameState) *Action {
	targets := gs.Opponents(f)
	if len(targets) == 0 {
		if c := firstCard(f.Hand); c != nil {
			return &Action{Type: ActionAddToQueue, CardID: c.CardID()}
		}
		return nil
	}

	if ready := f.ReadyOrganizations(); len(ready) > 0 && b.rng.Float64() < attackProbability {
		target := b.SelectTarget(f, targets, gs)
		return &Action{Type: ActionExecuteAttack, TargetID: target.ID, OrganizationID: ready[0].ID}
	}

	if len(f.Hand) == 0 {
		return nil
	}
	card := StrategyForArchetype(f.Archetype).SelectCard(f, gs, b.rng)
	if card == nil {
		card = f.Hand[0]
	}
	return &Action{Type: ActionAddToQueue, CardID: card.CardID()}
}

// SelectTarget applies the faction's archetype targeting to candidates.
// Returns nil only when candidates is empty.
func (b *Brain) SelectTarget(f *gpuwars.Faction, candidates []*gpuwars.Faction, gs *gpuwars.GameState) *gpuwars.Faction {
	if len(candidates) == 0 {
		return nil
	}
	return StrategyForArchetype(f.Archetype).SelectTarget(f, candidates, gs, b.rng)
}

// ChooseTarget lets the engine route agent target picks through the
// archetype strategy.
func (b *Brain) ChooseTarget(gs *gpuwars.GameState, actor *gpuwars.Faction, candidates []*gpuwars.Faction) string {
	if t := b.SelectTarget(actor, candidates, gs); t != nil {
		return t.ID
	}
	return ""
}

// ShouldPlayDefenseCard decides whether the defender answers the pending
// attack. Lethal hits are always answered, preferring a full block;
// trivial ones never are; moderate ones when health is below 50% and heavy
// ones below 80%, preferring a reduction card to keep full blocks.
func (b *Brain) ShouldPlayDefenseCard(defender *gpuwars.Faction, _ *gpuwars.GameState, pa *gpuwars.PendingAttack) DefenseVerdict {
	cards := defender.DefenseCardsFor(pa.Category)
	if len(cards) == 0 {
		return DefenseVerdict{}
	}

	current := defender.PoolValue(pa.Pool)
	health := 0.0
	if limit := defender.PoolMax(pa.Pool); limit > 0 {
		health = float64(current) / float64(limit)
	}

	switch {
	case pa.Damage >= current:
		return pickDefense(cards, true)
	case pa.Damage < trivialDamage:
		return DefenseVerdict{}
	case pa.Damage < heavyDamage && health < 0.5:
		return pickDefense(cards, false)
	case pa.Damage >= heavyDamage && health < 0.8:
		return pickDefense(cards, false)
	}
	return DefenseVerdict{}
}

func pickDefense(cards []*gpuwars.DefenseCard, lethal bool) DefenseVerdict {
	for _, c := range cards {
		if lethal == c.FullBlock {
			return DefenseVerdict{ShouldPlay: true, CardID: c.ID}
		}
	}
	return DefenseVerdict{ShouldPlay: true, CardID: cards[0].ID}
}
