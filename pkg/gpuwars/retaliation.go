package gpuwars

// eliminate marks the faction out and runs its final retaliation before
// returning. Retaliation can eliminate further factions; those are handled
// depth-first by the nested calls.
func (e *Engine) eliminate(f *Faction) {
	if f.Eliminated {
		return
	}
	f.Eliminated = true
	f.EliminatedRound = e.state.Round
	f.Resources = nil
	f.ResourceTotal = 0
	f.SkipTurns = 0
	e.logEvent(EventElimination, f.ID, "%s has run out of GPUs", f.Name)
	e.setPhase(PhaseFinalRetaliation)
	e.retaliate(f)
}

// retaliate discharges every loaded organization and every covert op in the
// eliminated faction's hand at random survivors. Defenses cannot intercept
// these strikes.
func (e *Engine) retaliate(f *Faction) {
	if e.retaliated[f.ID] {
		return
	}
	e.retaliated[f.ID] = true

	for _, org := range f.Organizations {
		if !org.Ready() {
			continue
		}
		target := e.randomOpponent(f)
		if target == nil {
			break
		}
		pa := e.armAttack(f, target, org)
		e.logEvent(EventAttack, f.ID, "Final retaliation: %s fires %s at %s", f.Name, org.Attached.Name, target.Name)
		e.land(pa)
	}

	var ops []*CovertOpCard
	var keep []Card
	for _, c := range f.Hand {
		if op, ok := c.(*CovertOpCard); ok {
			ops = append(ops, op)
			continue
		}
		keep = append(keep, c)
	}
	f.Hand = keep

	for _, op := range ops {
		e.discard(op)
		if !op.Effect.Targeted() {
			e.applyUntargeted(f, op)
			continue
		}
		target := e.randomOpponent(f)
		if target == nil {
			continue
		}
		e.launchCovertOp(f, target, op, true)
	}
}

func (e *Engine) randomOpponent(f *Faction) *Faction {
	opponents := e.state.Opponents(f)
	if len(opponents) == 0 {
		return nil
	}
	return opponents[e.rng.Intn(len(opponents))]
}
