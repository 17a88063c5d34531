package gpuwars

import "math"

// PlayDefenseCard answers the pending attack with a defense card from the
// defender's hand. Full blocks negate the attack (and reflect it back when
// the card says so); reduction cards shrink the damage before it lands.
func (e *Engine) PlayDefenseCard(defenderID, cardID string) error {
	const op = "play defense card"
	pa, defender, err := e.pendingFor(op, defenderID)
	if err != nil {
		return err
	}
	card := defender.CardInHand(cardID)
	if card == nil {
		return invalidOp(op, "card %s is not in %s's hand", cardID, defenderID)
	}
	def, ok := card.(*DefenseCard)
	if !ok {
		return invalidOp(op, "%s is not a defense card", card.CardName())
	}
	if def.Blocks != pa.Category {
		return invalidOp(op, "%s blocks %s, not %s", def.Name, def.Blocks, pa.Category)
	}

	e.state.PendingAttack = nil
	defender.removeFromHand(cardID)
	e.discard(def)
	attacker := e.state.Faction(pa.AttackerID)

	if def.FullBlock {
		e.logEvent(EventInfo, defender.ID, "%s blocks the attack with %s", defender.Name, def.Name)
		if plan := e.detach(attacker, pa.OrganizationID); plan != nil {
			e.afterKinetic(attacker, defender, plan, false)
		}
		if def.Reflect {
			e.reflect(pa, attacker, defender)
		}
	} else {
		reduced := *pa
		reduced.Damage = ReduceDamage(pa.Damage, def.Reduction)
		e.logEvent(EventInfo, defender.ID, "%s softens the attack with %s (%d -> %d)", defender.Name, def.Name, pa.Damage, reduced.Damage)
		e.land(&reduced)
	}
	e.settle()
	return nil
}

// DeclineDefense lets the pending attack land in full.
func (e *Engine) DeclineDefense(defenderID string) error {
	pa, defender, err := e.pendingFor("decline defense", defenderID)
	if err != nil {
		return err
	}
	e.state.PendingAttack = nil
	e.logEvent(EventInfo, defender.ID, "%s takes the hit", defender.Name)
	e.land(pa)
	e.settle()
	return nil
}

func (e *Engine) pendingFor(op, defenderID string) (*PendingAttack, *Faction, error) {
	if e.state.Phase == PhaseEnded {
		return nil, nil, invalidOp(op, "game has ended")
	}
	pa := e.state.PendingAttack
	if pa == nil {
		return nil, nil, invalidOp(op, "no attack is pending")
	}
	if pa.DefenderID != defenderID {
		return nil, nil, invalidOp(op, "pending attack targets %s, not %s", pa.DefenderID, defenderID)
	}
	return pa, e.state.Faction(defenderID), nil
}

// reflect turns a blocked attack back on its attacker using the same
// primitives with roles swapped.
func (e *Engine) reflect(pa *PendingAttack, attacker, defender *Faction) {
	e.logEvent(EventAttack, defender.ID, "%s turns the attack back on %s", defender.Name, attacker.Name)
	switch pa.Effect {
	case EffectSteal:
		e.steal(defender, attacker, pa.Damage)
	case EffectDamageBuilding, EffectDamageResources:
		e.damage(attacker, pa.Pool, pa.Damage)
	case EffectSkipTurn:
		if !attacker.Eliminated {
			attacker.SkipTurns++
		}
	case EffectRedirectAttack:
		if !attacker.Eliminated {
			attacker.RedirectNextAttack = true
		}
	}
}

// ReduceDamage applies a defense card's reduction: fractions below 1 remove
// that share of the damage (floored); larger values subtract a flat amount.
func ReduceDamage(damage int, reduction float64) int {
	if reduction < 1 {
		return int(math.Floor(float64(damage) * (1 - reduction)))
	}
	return max(0, damage-int(reduction))
}
