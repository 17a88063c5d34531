package gpuwars

import "time"

// EventType classifies game log entries.
type EventType string

const (
	EventInfo        EventType = "INFO"
	EventWarning     EventType = "WARNING"
	EventAttack      EventType = "ATTACK"
	EventElimination EventType = "ELIMINATION"
	EventPhase       EventType = "PHASE"
)

// GameEvent is one entry of the game log.
type GameEvent struct {
	Seq       int       `json:"seq"`
	Round     int       `json:"round"`
	Type      EventType `json:"type"`
	FactionID string    `json:"faction_id,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// PendingAttack is an attack or effect waiting for the defender's response.
type PendingAttack struct {
	AttackerID     string
	DefenderID     string
	OrganizationID string // empty for covert ops and propaganda
	CardID         string
	Category       Category
	Damage         int
	Pool           TargetPool
	Effect         CovertEffect
}

// PendingTargetSelection is a revealed card waiting for its human owner to
// pick a target.
type PendingTargetSelection struct {
	ActorID      string
	CardID       string
	Kind         CardKind
	ValidTargets []string
}

// GameState is the complete game at one point in time.
type GameState struct {
	ID                     string
	Phase                  Phase
	Round                  int
	CurrentTurn            int
	Factions               []*Faction
	Deck                   []Card
	Discard                []Card
	Events                 []GameEvent
	Winner                 string
	PendingAttack          *PendingAttack
	PendingTarget          *PendingTargetSelection
	ConflictTriggered      bool
	PropagandaBlockedUntil int
}

// Clone returns a deep copy sharing no mutable memory with gs.
func (gs *GameState) Clone() *GameState {
	c := *gs
	if gs.Factions != nil {
		c.Factions = make([]*Faction, len(gs.Factions))
		for i, f := range gs.Factions {
			c.Factions[i] = f.Clone()
		}
	}
	c.Deck = cloneCards(gs.Deck)
	c.Discard = cloneCards(gs.Discard)
	if gs.Events != nil {
		c.Events = append([]GameEvent(nil), gs.Events...)
	}
	if gs.PendingAttack != nil {
		pa := *gs.PendingAttack
		c.PendingAttack = &pa
	}
	if gs.PendingTarget != nil {
		pt := *gs.PendingTarget
		pt.ValidTargets = append([]string(nil), gs.PendingTarget.ValidTargets...)
		c.PendingTarget = &pt
	}
	return &c
}

// Faction looks up a faction by id.
func (gs *GameState) Faction(id string) *Faction {
	for _, f := range gs.Factions {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// FactionByType looks up a faction by type.
func (gs *GameState) FactionByType(t FactionType) *Faction {
	for _, f := range gs.Factions {
		if f.Type == t {
			return f
		}
	}
	return nil
}

// Human returns the human-controlled faction (always seat 0).
func (gs *GameState) Human() *Faction {
	if len(gs.Factions) == 0 {
		return nil
	}
	return gs.Factions[0]
}

// Current returns the faction whose turn it is.
func (gs *GameState) Current() *Faction {
	if gs.CurrentTurn < 0 || gs.CurrentTurn >= len(gs.Factions) {
		return nil
	}
	return gs.Factions[gs.CurrentTurn]
}

// Survivors returns the non-eliminated factions in seating order.
func (gs *GameState) Survivors() []*Faction {
	var out []*Faction
	for _, f := range gs.Factions {
		if !f.Eliminated {
			out = append(out, f)
		}
	}
	return out
}

// Opponents returns the surviving factions other than f.
func (gs *GameState) Opponents(f *Faction) []*Faction {
	var out []*Faction
	for _, o := range gs.Factions {
		if o.ID != f.ID && !o.Eliminated {
			out = append(out, o)
		}
	}
	return out
}

// BuildingOwner returns the id of the faction that captured the building of
// factionID, or "".
func (gs *GameState) BuildingOwner(factionID string) string {
	for _, f := range gs.Factions {
		for _, b := range f.CapturedBuildings {
			if b == factionID {
				return f.ID
			}
		}
	}
	return ""
}

// CheckWinCondition evaluates, in priority order: no survivors (NoWinner),
// a single survivor, then any faction, eliminated or not, controlling three
// buildings counting its own if standing. Returns "" while the game continues.
func (gs *GameState) CheckWinCondition() string {
	survivors := gs.Survivors()
	switch len(survivors) {
	case 0:
		return NoWinner
	case 1:
		return survivors[0].ID
	}
	for _, f := range gs.Factions {
		held := len(f.CapturedBuildings)
		if f.BuildingAlive() {
			held++
		}
		if held >= 3 {
			return f.ID
		}
	}
	return ""
}

// CardCount counts every card across deck, hands, queues, organizations,
// attached plans and the discard pile.
func (gs *GameState) CardCount() int {
	n := len(gs.Deck) + len(gs.Discard)
	for _, f := range gs.Factions {
		n += len(f.Hand) + len(f.Queue) + len(f.Organizations)
		for _, o := range f.Organizations {
			if o.Attached != nil {
				n++
			}
		}
	}
	return n
}
