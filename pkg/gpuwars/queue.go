package gpuwars

import "fmt"

// AddCardToQueue moves a hand card to the tail of the faction's queue. When
// the queue reaches capacity its oldest card is revealed and resolved before
// the call returns.
func (e *Engine) AddCardToQueue(factionID, cardID string) error {
	const op = "add card to queue"
	if err := e.checkMutable(op); err != nil {
		return err
	}
	f, err := e.activeFaction(op, factionID)
	if err != nil {
		return err
	}
	if f.CardInHand(cardID) == nil {
		return invalidOp(op, "card %s is not in %s's hand", cardID, factionID)
	}

	card := f.removeFromHand(cardID)
	f.Queue = append(f.Queue, card)
	e.logEvent(EventInfo, f.ID, "%s queued a card (%d/%d)", f.Name, len(f.Queue), e.catalog.QueueCapacity)

	if len(f.Queue) >= e.catalog.QueueCapacity {
		e.revealHead(f)
	}
	e.settle()
	return nil
}

// RevealAndResolve reveals and resolves the oldest card in the faction's queue.
func (e *Engine) RevealAndResolve(factionID string) error {
	const op = "reveal queue"
	if err := e.checkMutable(op); err != nil {
		return err
	}
	f, err := e.activeFaction(op, factionID)
	if err != nil {
		return err
	}
	if len(f.Queue) == 0 {
		return invalidOp(op, "%s has an empty queue", factionID)
	}
	e.revealHead(f)
	e.settle()
	return nil
}

func (e *Engine) revealHead(f *Faction) {
	card := f.Queue[0]
	f.Queue = append([]Card(nil), f.Queue[1:]...)
	e.logEvent(EventInfo, f.ID, "%s reveals %s", f.Name, card.CardName())
	e.resolveCard(f, card)
	if !f.Eliminated {
		e.draw(f)
	}
}

func (e *Engine) resolveCard(f *Faction, card Card) {
	switch c := card.(type) {
	case *CovertOpCard:
		e.discard(c)
		if !c.Effect.Targeted() {
			e.applyUntargeted(f, c)
			return
		}
		e.withTarget(f, c)
	case *PropagandaCard:
		e.discard(c)
		e.resolvePropaganda(f, c)
	case *OrganizationCard:
		f.Organizations = append(f.Organizations, c)
		e.logEvent(EventInfo, f.ID, "%s deploys %s", f.Name, c.Name)
	case *ActionPlanCard:
		e.deployActionPlan(f, c)
	case *DefenseCard:
		e.discard(c)
		e.logEvent(EventWarning, f.ID, "%s has no effect outside a defense response", c.Name)
	default:
		panic(fmt.Sprintf("gpuwars: unhandled card type %T", card))
	}
}

// deployActionPlan heals or wards the owner for support plans, otherwise
// arms the first unloaded organization of the plan's category.
func (e *Engine) deployActionPlan(f *Faction, plan *ActionPlanCard) {
	if plan.Support() {
		if plan.Heal > 0 {
			healed := f.healBuilding(plan.Heal)
			e.logEvent(EventInfo, f.ID, "%s repairs %d server farm HP", f.Name, healed)
		}
		if plan.Ward > f.Ward {
			f.Ward = plan.Ward
			e.logEvent(EventInfo, f.ID, "%s hardens against the next attack (%.0f%%)", f.Name, plan.Ward*100)
		}
		e.discard(plan)
		return
	}
	for _, o := range f.Organizations {
		if !o.Ready() && o.Category == plan.Category {
			o.Attached = plan
			e.logEvent(EventInfo, f.ID, "%s loads %s into %s", f.Name, plan.Name, o.Name)
			return
		}
	}
	e.discard(plan)
	e.logEvent(EventWarning, f.ID, "%s has no free %s organization; %s is wasted", f.Name, plan.Category, plan.Name)
}

func (e *Engine) resolvePropaganda(f *Faction, c *PropagandaCard) {
	if !e.propagandaEffective() {
		e.logEvent(EventWarning, f.ID, "%s has no effect right now", c.Name)
		return
	}
	if c.TargetAll {
		for _, o := range e.state.Opponents(f) {
			e.steal(f, o, e.stealAmount(f, c.Steal, CategoryPropaganda))
		}
		return
	}
	e.withTarget(f, c)
}

func (e *Engine) propagandaEffective() bool {
	return e.state.Phase == PhasePeacetime && e.state.Round > e.state.PropagandaBlockedUntil
}

func (e *Engine) applyUntargeted(f *Faction, c *CovertOpCard) {
	switch c.Effect {
	case EffectGain:
		if f.Eliminated {
			return
		}
		f.addResources(c.Amount, e.catalog.Denominations, e.ids)
		e.logEvent(EventInfo, f.ID, "%s gains %dK GPUs", f.Name, c.Amount)
	case EffectCancelPropaganda:
		e.state.PropagandaBlockedUntil = e.state.Round + 1
		e.logEvent(EventInfo, f.ID, "%s blacks out information campaigns until round %d", f.Name, e.state.Round+2)
	default:
		panic(fmt.Sprintf("gpuwars: covert effect %s needs a target", c.Effect))
	}
}
