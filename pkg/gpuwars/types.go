package gpuwars

// FactionType identifies one of the five AI labs.
type FactionType string

const (
	OpenG   FactionType = "OPENG"
	Clarisa FactionType = "CLARISA"
	Gemaica FactionType = "GEMAICA"
	Sloth   FactionType = "SLOTH"
	Camel   FactionType = "CAMEL"
)

// AllFactionTypes returns the five factions in default seating order.
func AllFactionTypes() []FactionType {
	return []FactionType{OpenG, Clarisa, Sloth, Gemaica, Camel}
}

// Archetype selects the heuristics an agent-controlled faction plays with.
type Archetype string

const (
	Aggressive Archetype = "AGGRESSIVE"
	Defensive  Archetype = "DEFENSIVE"
	Chaos      Archetype = "CHAOS"
	Propaganda Archetype = "PROPAGANDA"
	Balanced   Archetype = "BALANCED"
)

// Phase is the game-wide phase governing which card categories are effective.
type Phase string

const (
	PhaseSetup            Phase = "SETUP"
	PhasePeacetime        Phase = "PEACETIME"
	PhaseConflict         Phase = "CONFLICT"
	PhaseFinalRetaliation Phase = "FINAL_RETALIATION"
	PhaseEnded            Phase = "ENDED"
)

// Category is the attack category a defense card can block. Action plans and
// organizations use the four kinetic categories; covert ops and propaganda
// are blockable as whole card kinds.
type Category string

const (
	CategoryProtest    Category = "PROTEST"
	CategoryPrayer     Category = "PRAYER"
	CategoryThrowing   Category = "THROWING"
	CategoryInvasion   Category = "INVASION"
	CategoryCovertOp   Category = "COVERT_OP"
	CategoryPropaganda Category = "PROPAGANDA"
)

// TargetPool is the defender value an attack reduces.
type TargetPool string

const (
	PoolBuilding  TargetPool = "BUILDING"
	PoolResources TargetPool = "RESOURCES"
)

// NoWinner is the win-check result when every faction has been eliminated.
const NoWinner = "NONE"
