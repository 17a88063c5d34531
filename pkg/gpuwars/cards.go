package gpuwars

import "fmt"

// CardKind tags the five card variants.
type CardKind string

const (
	KindCovertOp     CardKind = "COVERT_OP"
	KindPropaganda   CardKind = "PROPAGANDA"
	KindOrganization CardKind = "ORGANIZATION"
	KindActionPlan   CardKind = "ACTION_PLAN"
	KindDefense      CardKind = "DEFENSE"
)

// CovertEffect is the effect a covert op applies when revealed.
type CovertEffect string

const (
	EffectDamageResources  CovertEffect = "DAMAGE_RESOURCES"
	EffectDamageBuilding   CovertEffect = "DAMAGE_BUILDING"
	EffectSteal            CovertEffect = "STEAL"
	EffectGain             CovertEffect = "GAIN"
	EffectSkipTurn         CovertEffect = "SKIP_TURN"
	EffectRedirectAttack   CovertEffect = "REDIRECT_ATTACK"
	EffectCancelPropaganda CovertEffect = "CANCEL_PROPAGANDA"
)

// Targeted reports whether the effect needs an opposing faction to land on.
func (e CovertEffect) Targeted() bool {
	switch e {
	case EffectDamageResources, EffectDamageBuilding, EffectSteal, EffectSkipTurn, EffectRedirectAttack:
		return true
	case EffectGain, EffectCancelPropaganda:
		return false
	default:
		panic(fmt.Sprintf("gpuwars: unknown covert effect %q", string(e)))
	}
}

// Card is one of *CovertOpCard, *PropagandaCard, *OrganizationCard,
// *ActionPlanCard or *DefenseCard. The set is closed.
type Card interface {
	CardID() string
	CardName() string
	Kind() CardKind
	Clone() Card
	isCard()
}

// CardBase holds the identity shared by every card.
type CardBase struct {
	ID          string
	Name        string
	Description string
}

func (b CardBase) CardID() string   { return b.ID }
func (b CardBase) CardName() string { return b.Name }

// CovertOpCard is an instant effect resolved from the queue.
type CovertOpCard struct {
	CardBase
	Effect CovertEffect
	Amount int
}

// PropagandaCard steals resources; effective only in peacetime.
type PropagandaCard struct {
	CardBase
	Steal          int
	TargetAll      bool
	BackfireChance float64
}

// OrganizationCard stays in play and can hold one attached action plan.
type OrganizationCard struct {
	CardBase
	Category Category
	Attached *ActionPlanCard
}

// Ready reports whether the organization holds an attack.
func (o *OrganizationCard) Ready() bool { return o.Attached != nil }

// ActionPlanCard arms an organization, or supports its owner when it carries
// no damage (healing and wards).
type ActionPlanCard struct {
	CardBase
	Category       Category
	Damage         int
	Target         TargetPool
	Heal           int
	Ward           float64
	SelfDamage     int
	DisableTurns   int
	CaptureBelow   int
	BackfireChance float64
	BackfireDamage int
}

// Support reports whether the plan resolves on its owner instead of arming
// an organization.
func (p *ActionPlanCard) Support() bool {
	return p.Heal > 0 || p.Ward > 0
}

// DefenseCard is a reactive card playable against a matching pending attack.
// A Reduction below 1 is a fraction of the damage removed; otherwise it is a
// flat amount subtracted.
type DefenseCard struct {
	CardBase
	Blocks    Category
	FullBlock bool
	Reduction float64
	Reflect   bool
}

func (*CovertOpCard) Kind() CardKind     { return KindCovertOp }
func (*PropagandaCard) Kind() CardKind   { return KindPropaganda }
func (*OrganizationCard) Kind() CardKind { return KindOrganization }
func (*ActionPlanCard) Kind() CardKind   { return KindActionPlan }
func (*DefenseCard) Kind() CardKind      { return KindDefense }

func (*CovertOpCard) isCard()     {}
func (*PropagandaCard) isCard()   {}
func (*OrganizationCard) isCard() {}
func (*ActionPlanCard) isCard()   {}
func (*DefenseCard) isCard()      {}

func (c *CovertOpCard) Clone() Card   { cp := *c; return &cp }
func (c *PropagandaCard) Clone() Card { cp := *c; return &cp }
func (c *ActionPlanCard) Clone() Card { cp := *c; return &cp }
func (c *DefenseCard) Clone() Card    { cp := *c; return &cp }

func (c *OrganizationCard) Clone() Card {
	cp := *c
	if c.Attached != nil {
		plan := *c.Attached
		cp.Attached = &plan
	}
	return &cp
}

// ResourceCard is an immutable GPU token of one denomination.
type ResourceCard struct {
	ID    string
	Value int
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}

func indexOfCard(cards []Card, id string) int {
	for i, c := range cards {
		if c.CardID() == id {
			return i
		}
	}
	return -1
}

func removeCardAt(cards []Card, i int) []Card {
	out := make([]Card, 0, len(cards)-1)
	out = append(out, cards[:i]...)
	return append(out, cards[i+1:]...)
}
