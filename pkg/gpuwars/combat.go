package gpuwars

// ExecuteAttack launches the action plan loaded in one of the attacker's
// organizations. If the defender holds a defense card for the attack's
// category the attack waits for PlayDefenseCard or DeclineDefense;
// otherwise it lands before returning.
func (e *Engine) ExecuteAttack(attackerID, defenderID, orgID string) (AttackResult, error) {
	const op = "execute attack"
	if err := e.checkMutable(op); err != nil {
		return AttackResult{}, err
	}
	attacker, err := e.activeFaction(op, attackerID)
	if err != nil {
		return AttackResult{}, err
	}
	defender, err := e.activeFaction(op, defenderID)
	if err != nil {
		return AttackResult{}, err
	}
	if attacker.ID == defender.ID {
		return AttackResult{}, invalidOp(op, "%s cannot attack itself", attackerID)
	}
	org := attacker.Organization(orgID)
	if org == nil {
		return AttackResult{}, invalidOp(op, "%s has no organization %s", attackerID, orgID)
	}
	if !org.Ready() {
		return AttackResult{}, invalidOp(op, "organization %s has no action plan loaded", orgID)
	}

	if attacker.RedirectNextAttack {
		attacker.RedirectNextAttack = false
		var alts []*Faction
		for _, o := range e.state.Opponents(attacker) {
			if o.ID != defender.ID {
				alts = append(alts, o)
			}
		}
		if len(alts) > 0 {
			defender = alts[e.rng.Intn(len(alts))]
			e.logEvent(EventWarning, attacker.ID, "%s's attack is hijacked toward %s", attacker.Name, defender.Name)
		}
	}

	pa := e.armAttack(attacker, defender, org)
	e.logEvent(EventAttack, attacker.ID, "%s strikes %s with %s", attacker.Name, defender.Name, org.Attached.Name)
	res := AttackResult{Status: AttackResolved, DefenderID: defender.ID, Category: pa.Category}
	if e.strike(pa, false) {
		res.Status = AttackPendingDefense
	}
	e.settle()
	return res, nil
}

// armAttack applies the attacker's outgoing and the defender's incoming
// modifiers to the loaded plan.
func (e *Engine) armAttack(attacker, defender *Faction, org *OrganizationCard) *PendingAttack {
	plan := org.Attached
	effect := EffectDamageBuilding
	if plan.Target == PoolResources {
		effect = EffectDamageResources
	}
	damage := e.outgoing(attacker, plan.Category, plan.Damage)
	damage = e.incoming(defender, plan.Target, damage)
	return &PendingAttack{
		AttackerID:     attacker.ID,
		DefenderID:     defender.ID,
		OrganizationID: org.ID,
		CardID:         plan.ID,
		Category:       plan.Category,
		Damage:         damage,
		Pool:           plan.Target,
		Effect:         effect,
	}
}

// strike suspends into a PendingAttack when the defender can respond and
// forced is false; otherwise it lands the attack. Reports whether it suspended.
func (e *Engine) strike(pa *PendingAttack, forced bool) bool {
	defender := e.state.Faction(pa.DefenderID)
	if !forced && len(defender.DefenseCardsFor(pa.Category)) > 0 {
		e.state.PendingAttack = pa
		e.logEvent(EventInfo, defender.ID, "%s may respond with a defense card", defender.Name)
		return true
	}
	e.land(pa)
	return false
}

// land applies a pending attack in full.
func (e *Engine) land(pa *PendingAttack) {
	attacker := e.state.Faction(pa.AttackerID)
	defender := e.state.Faction(pa.DefenderID)
	plan := e.detach(attacker, pa.OrganizationID)

	dealt := 0
	switch pa.Effect {
	case EffectDamageBuilding, EffectDamageResources:
		if plan != nil && pa.Damage > 0 && defender.PoolValue(pa.Pool) > 0 {
			e.triggerConflict(attacker)
		}
		dealt = e.damage(defender, pa.Pool, pa.Damage)
		e.logEvent(EventAttack, defender.ID, "%s takes %d %s damage", defender.Name, dealt, poolLabel(pa.Pool))
	case EffectSteal:
		dealt = e.steal(attacker, defender, pa.Damage)
	case EffectSkipTurn:
		if !defender.Eliminated {
			defender.SkipTurns++
			e.logEvent(EventAttack, defender.ID, "%s will skip its next turn", defender.Name)
		}
	case EffectRedirectAttack:
		if !defender.Eliminated {
			defender.RedirectNextAttack = true
			e.logEvent(EventAttack, defender.ID, "%s's next attack will be redirected", defender.Name)
		}
	}

	if plan != nil {
		e.afterKinetic(attacker, defender, plan, true)
	}
}

// afterKinetic applies an action plan's secondary effects. Self-damage
// applies on every use; the rest only when the attack landed.
func (e *Engine) afterKinetic(attacker, defender *Faction, plan *ActionPlanCard, landed bool) {
	if landed {
		if plan.CaptureBelow > 0 {
			e.capture(attacker, defender, plan.CaptureBelow)
		}
		if plan.DisableTurns > 0 && !defender.Eliminated {
			defender.SkipTurns += plan.DisableTurns
			e.logEvent(EventAttack, defender.ID, "%s is locked down for %d turn(s)", defender.Name, plan.DisableTurns)
		}
		if plan.BackfireChance > 0 && e.rng.Float64() < plan.BackfireChance {
			dealt := e.damage(attacker, PoolBuilding, plan.BackfireDamage)
			e.logEvent(EventWarning, attacker.ID, "%s backfires: %s takes %d damage", plan.Name, attacker.Name, dealt)
		}
	}
	if plan.SelfDamage > 0 {
		lost := e.damage(attacker, PoolResources, plan.SelfDamage)
		e.logEvent(EventInfo, attacker.ID, "%s loses %dK GPUs to %s", attacker.Name, lost, plan.Name)
	}
}

// detach clears an organization's loaded plan into the discard pile before
// the attack lands, so a retaliation cascade cannot fire it twice.
func (e *Engine) detach(owner *Faction, orgID string) *ActionPlanCard {
	if owner == nil || orgID == "" {
		return nil
	}
	org := owner.Organization(orgID)
	if org == nil || org.Attached == nil {
		return nil
	}
	plan := org.Attached
	org.Attached = nil
	e.discard(plan)
	return plan
}

func (e *Engine) triggerConflict(attacker *Faction) {
	if e.state.Phase != PhasePeacetime || e.state.ConflictTriggered {
		return
	}
	e.state.ConflictTriggered = true
	e.logEvent(EventWarning, attacker.ID, "%s opens kinetic hostilities", attacker.Name)
	e.setPhase(PhaseConflict)
}

func (e *Engine) capture(attacker, defender *Faction, threshold int) {
	if attacker.ID == defender.ID || defender.BuildingHP >= threshold {
		return
	}
	if e.state.BuildingOwner(defender.ID) != "" {
		return
	}
	attacker.CapturedBuildings = append(attacker.CapturedBuildings, defender.ID)
	e.logEvent(EventAttack, attacker.ID, "%s captures %s's server farm", attacker.Name, defender.Name)
}

// outgoing applies the attacker's unused ability to damage it deals.
func (e *Engine) outgoing(f *Faction, category Category, amount int) int {
	if amount <= 0 || f.AbilityUsed || !f.Ability.Matches(TriggerOutgoingAttack, category) {
		return amount
	}
	f.AbilityUsed = true
	boosted := f.Ability.Apply(amount)
	e.logEvent(EventInfo, f.ID, "%s: %s (%d -> %d)", f.Name, f.Ability.Name, amount, boosted)
	return boosted
}

// incoming applies the defender's ward and unused damage-reduction ability.
func (e *Engine) incoming(f *Faction, pool TargetPool, amount int) int {
	if amount <= 0 {
		return amount
	}
	if f.Ward > 0 {
		amount = int(float64(amount) * (1 - f.Ward))
		f.Ward = 0
	}
	if pool == PoolBuilding && f.BuildingAlive() && !f.AbilityUsed && f.Ability.Matches(TriggerIncomingBuildingDamage, "") {
		f.AbilityUsed = true
		reduced := f.Ability.Apply(amount)
		e.logEvent(EventInfo, f.ID, "%s: %s (%d -> %d)", f.Name, f.Ability.Name, amount, reduced)
		amount = reduced
	}
	return amount
}

// stealAmount applies the actor's unused steal ability.
func (e *Engine) stealAmount(f *Faction, amount int, category Category) int {
	if amount <= 0 || f.AbilityUsed || !f.Ability.Matches(TriggerSteal, category) {
		return amount
	}
	f.AbilityUsed = true
	boosted := f.Ability.Apply(amount)
	e.logEvent(EventInfo, f.ID, "%s: %s (%d -> %d)", f.Name, f.Ability.Name, amount, boosted)
	return boosted
}

// damage reduces a pool and returns what was removed. Emptying the resource
// pool eliminates the faction before returning.
func (e *Engine) damage(f *Faction, pool TargetPool, amount int) int {
	if f == nil || f.Eliminated || amount <= 0 {
		return 0
	}
	if pool == PoolBuilding {
		alive := f.BuildingAlive()
		dealt := f.damageBuilding(amount)
		if alive && !f.BuildingAlive() {
			e.logEvent(EventWarning, f.ID, "%s's server farm is destroyed", f.Name)
		}
		return dealt
	}
	removed := f.removeResources(amount, e.catalog.Denominations, e.ids)
	if f.ResourceTotal == 0 {
		e.eliminate(f)
	}
	return removed
}

// steal moves up to amount from target to actor.
func (e *Engine) steal(actor, target *Faction, amount int) int {
	if amount <= 0 || target.Eliminated {
		return 0
	}
	actual := min(amount, target.ResourceTotal)
	e.damage(target, PoolResources, actual)
	if !actor.Eliminated {
		actor.addResources(actual, e.catalog.Denominations, e.ids)
	}
	e.logEvent(EventAttack, actor.ID, "%s steals %dK GPUs from %s", actor.Name, actual, target.Name)
	return actual
}

func poolLabel(p TargetPool) string {
	if p == PoolBuilding {
		return "server farm"
	}
	return "GPU"
}
