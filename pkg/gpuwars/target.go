package gpuwars

import (
	"fmt"
	"slices"
)

// withTarget resolves a single-target card. Human actors suspend into a
// PendingTargetSelection; agents choose synchronously from the same set.
func (e *Engine) withTarget(actor *Faction, card Card) {
	candidates := e.state.Opponents(actor)
	if len(candidates) == 0 {
		e.logEvent(EventWarning, actor.ID, "%s has no valid target", card.CardName())
		return
	}
	if actor.Human {
		ids := make([]string, len(candidates))
		for i, c := range candidates {
			ids[i] = c.ID
		}
		e.state.PendingTarget = &PendingTargetSelection{
			ActorID:      actor.ID,
			CardID:       card.CardID(),
			Kind:         card.Kind(),
			ValidTargets: ids,
		}
		e.logEvent(EventInfo, actor.ID, "%s selects a target for %s", actor.Name, card.CardName())
		return
	}
	e.applyTargeted(actor, e.chooseTarget(actor, candidates), card, false)
}

func (e *Engine) chooseTarget(actor *Faction, candidates []*Faction) *Faction {
	if e.chooser == nil {
		return candidates[0]
	}
	snap := e.state.Clone()
	view := make([]*Faction, len(candidates))
	for i, c := range candidates {
		view[i] = snap.Faction(c.ID)
	}
	id := e.chooser.ChooseTarget(snap, snap.Faction(actor.ID), view)
	for _, c := range candidates {
		if c.ID == id {
			return c
		}
	}
	return candidates[0]
}

// SelectCardTarget completes a pending target selection, applying the
// discarded card's effect against the chosen faction.
func (e *Engine) SelectCardTarget(targetID string) error {
	const op = "select target"
	if e.state.Phase == PhaseEnded {
		return invalidOp(op, "game has ended")
	}
	pt := e.state.PendingTarget
	if pt == nil {
		return invalidOp(op, "no target selection is pending")
	}
	if !slices.Contains(pt.ValidTargets, targetID) {
		return invalidOp(op, "%s is not a valid target", targetID)
	}
	target := e.state.Faction(targetID)
	if target == nil || target.Eliminated {
		return invalidOp(op, "%s is not a valid target", targetID)
	}
	i := indexOfCard(e.state.Discard, pt.CardID)
	if i < 0 {
		return invalidOp(op, "card %s is no longer in the discard pile", pt.CardID)
	}
	actor := e.state.Faction(pt.ActorID)

	e.state.PendingTarget = nil
	e.applyTargeted(actor, target, e.state.Discard[i], false)
	e.settle()
	return nil
}

func (e *Engine) applyTargeted(actor, target *Faction, card Card, forced bool) {
	switch c := card.(type) {
	case *CovertOpCard:
		e.launchCovertOp(actor, target, c, forced)
	case *PropagandaCard:
		e.launchPropaganda(actor, target, c, forced)
	default:
		panic(fmt.Sprintf("gpuwars: %T cannot be targeted", card))
	}
}

func (e *Engine) launchCovertOp(actor, target *Faction, c *CovertOpCard, forced bool) {
	pa := &PendingAttack{
		AttackerID: actor.ID,
		DefenderID: target.ID,
		CardID:     c.ID,
		Category:   CategoryCovertOp,
		Effect:     c.Effect,
		Pool:       PoolResources,
	}
	switch c.Effect {
	case EffectDamageResources:
		pa.Damage = e.incoming(target, PoolResources, e.outgoing(actor, CategoryCovertOp, c.Amount))
	case EffectDamageBuilding:
		pa.Pool = PoolBuilding
		pa.Damage = e.incoming(target, PoolBuilding, e.outgoing(actor, CategoryCovertOp, c.Amount))
	case EffectSteal:
		pa.Damage = e.stealAmount(actor, c.Amount, CategoryCovertOp)
	case EffectSkipTurn, EffectRedirectAttack:
	case EffectGain, EffectCancelPropaganda:
		e.applyUntargeted(actor, c)
		return
	default:
		panic(fmt.Sprintf("gpuwars: unknown covert effect %q", string(c.Effect)))
	}
	e.logEvent(EventAttack, actor.ID, "%s launches %s against %s", actor.Name, c.Name, target.Name)
	e.strike(pa, forced)
}

func (e *Engine) launchPropaganda(actor, target *Faction, c *PropagandaCard, forced bool) {
	if c.BackfireChance > 0 && e.rng.Float64() < c.BackfireChance {
		e.logEvent(EventWarning, actor.ID, "%s backfires on %s", c.Name, actor.Name)
		e.steal(target, actor, c.Steal)
		return
	}
	pa := &PendingAttack{
		AttackerID: actor.ID,
		DefenderID: target.ID,
		CardID:     c.ID,
		Category:   CategoryPropaganda,
		Damage:     e.stealAmount(actor, c.Steal, CategoryPropaganda),
		Pool:       PoolResources,
		Effect:     EffectSteal,
	}
	e.logEvent(EventAttack, actor.ID, "%s runs %s against %s", actor.Name, c.Name, target.Name)
	e.strike(pa, forced)
}
