package gpuwars

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TargetChooser picks a target for an agent-controlled faction when a
// revealed card needs one. It receives a snapshot and returns a candidate id.
type TargetChooser interface {
	ChooseTarget(gs *GameState, actor *Faction, candidates []*Faction) string
}

// TargetChooserFunc adapts a function to TargetChooser.
type TargetChooserFunc func(gs *GameState, actor *Faction, candidates []*Faction) string

func (f TargetChooserFunc) ChooseTarget(gs *GameState, actor *Faction, candidates []*Faction) string {
	return f(gs, actor, candidates)
}

// Config configures a new game.
type Config struct {
	Catalog      *Catalog       // nil uses DefaultCatalog
	HumanFaction FactionType    // seat 0; defaults to OpenG
	Seed         int64          // 0 picks a time-based seed
	GameID       string         // "" generates a UUID
	Logger       *zerolog.Logger // nil disables engine logging; callers tag it with the game id
	Chooser      TargetChooser  // nil picks the first candidate
	Clock        func() time.Time
}

// AttackStatus is the outcome of ExecuteAttack.
type AttackStatus string

const (
	AttackResolved       AttackStatus = "RESOLVED"
	AttackPendingDefense AttackStatus = "PENDING_DEFENSE"
)

// AttackResult reports how an attack was handled. DefenderID may differ
// from the requested defender when the attacker was under a redirect.
type AttackResult struct {
	Status     AttackStatus
	DefenderID string
	Category   Category
}

// Engine owns the canonical GameState and is its only mutator. It is not
// safe for concurrent use.
type Engine struct {
	state      *GameState
	catalog    *Catalog
	ids        *IDGenerator
	rng        *rand.Rand
	seed       int64
	log        zerolog.Logger
	chooser    TargetChooser
	now        func() time.Time
	retaliated map[string]bool
}

// NewEngine builds and shuffles the deck, seats the human faction first and
// the rest in catalogue order, mints starting resources and deals hands.
func NewEngine(cfg Config) (*Engine, error) {
	cat := cfg.Catalog
	if cat == nil {
		var err error
		if cat, err = DefaultCatalog(); err != nil {
			return nil, err
		}
	}
	human := cfg.HumanFaction
	if human == "" {
		human = OpenG
	}
	if _, ok := cat.Faction(human); !ok {
		return nil, fmt.Errorf("unknown faction %q", human)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gameID := cfg.GameID
	if gameID == "" {
		gameID = uuid.NewString()
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	e := &Engine{
		catalog:    cat,
		ids:        NewIDGenerator(),
		rng:        rand.New(rand.NewSource(seed)),
		seed:       seed,
		log:        logger,
		chooser:    cfg.Chooser,
		now:        now,
		retaliated: make(map[string]bool),
	}
	e.state = &GameState{ID: gameID, Phase: PhaseSetup}

	deck, err := BuildDeck(cat, e.ids, e.rng)
	if err != nil {
		return nil, err
	}
	e.state.Deck = deck

	for i, t := range seatingOrder(cat.Seating, human) {
		fc, _ := cat.Faction(t)
		f := &Faction{
			ID:                strings.ToLower(string(t)),
			Type:              t,
			Name:              fc.Name,
			Archetype:         fc.Archetype,
			Human:             i == 0,
			Ability:           fc.Ability,
			StartingResources: fc.StartingResources,
			BuildingHP:        fc.MaxBuildingHP,
			MaxBuildingHP:     fc.MaxBuildingHP,
		}
		f.addResources(fc.StartingResources, cat.Denominations, e.ids)
		e.state.Factions = append(e.state.Factions, f)
	}
	for _, f := range e.state.Factions {
		for i := 0; i < cat.HandSize; i++ {
			e.draw(f)
		}
	}

	e.state.Phase = PhasePeacetime
	e.state.Round = 1
	e.logEvent(EventInfo, "", "Game started with %d factions", len(e.state.Factions))
	return e, nil
}

func seatingOrder(seating []FactionType, human FactionType) []FactionType {
	order := []FactionType{human}
	for _, t := range seating {
		if t != human {
			order = append(order, t)
		}
	}
	return order
}

// ID returns the game id.
func (e *Engine) ID() string { return e.state.ID }

// Seed returns the seed the engine's random source was built from.
func (e *Engine) Seed() int64 { return e.seed }

// Catalog returns the catalogue the game was built from.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.state.Phase }

// Winner returns the winner id once the game has ended.
func (e *Engine) Winner() string { return e.state.Winner }

// Snapshot returns a deep copy of the game state. Mutating it never affects
// the engine.
func (e *Engine) Snapshot() *GameState { return e.state.Clone() }

// CheckWinCondition evaluates the win condition against the current state.
func (e *Engine) CheckWinCondition() string { return e.state.CheckWinCondition() }

// NextTurn advances to the next surviving faction in seating order, passing
// over factions with skipped turns. Passing seat 0 starts a new round. A
// settled final retaliation returns the game to peacetime first.
func (e *Engine) NextTurn() error {
	if err := e.checkMutable("next turn"); err != nil {
		return err
	}
	gs := e.state
	if gs.Phase == PhaseFinalRetaliation && len(gs.Survivors()) > 1 {
		e.setPhase(PhasePeacetime)
	}
	if len(gs.Survivors()) == 0 {
		e.settle()
		return nil
	}

	n := len(gs.Factions)
	idx := gs.CurrentTurn
	for {
		idx = (idx + 1) % n
		if idx == 0 {
			gs.Round++
		}
		f := gs.Factions[idx]
		if f.Eliminated {
			continue
		}
		if f.SkipTurns > 0 {
			f.SkipTurns--
			e.logEvent(EventInfo, f.ID, "%s is locked out and skips a turn", f.Name)
			continue
		}
		break
	}
	gs.CurrentTurn = idx
	e.log.Debug().Int("round", gs.Round).Str("faction", gs.Factions[idx].ID).Msg("Turn advanced")
	e.settle()
	return nil
}

// Summary returns the leaderboard summary of a faction once the game ended.
func (e *Engine) Summary(factionID string) (Summary, error) {
	if e.state.Phase != PhaseEnded {
		return Summary{}, invalidOp("summary", "game has not ended")
	}
	s, ok := Summarize(e.state, factionID)
	if !ok {
		return Summary{}, invalidOp("summary", "unknown faction %s", factionID)
	}
	return s, nil
}

func (e *Engine) checkMutable(op string) error {
	switch {
	case e.state.Phase == PhaseEnded:
		return invalidOp(op, "game has ended")
	case e.state.PendingAttack != nil:
		return invalidOp(op, "waiting for %s to respond to an attack", e.state.PendingAttack.DefenderID)
	case e.state.PendingTarget != nil:
		return invalidOp(op, "waiting for %s to select a target", e.state.PendingTarget.ActorID)
	}
	return nil
}

func (e *Engine) activeFaction(op, id string) (*Faction, error) {
	f := e.state.Faction(id)
	if f == nil {
		return nil, invalidOp(op, "unknown faction %s", id)
	}
	if f.Eliminated {
		return nil, invalidOp(op, "faction %s is eliminated", id)
	}
	return f, nil
}

// settle ends the game the moment a winner exists.
func (e *Engine) settle() {
	gs := e.state
	if gs.Phase == PhaseEnded {
		return
	}
	winner := gs.CheckWinCondition()
	if winner == "" {
		return
	}
	gs.PendingAttack = nil
	gs.PendingTarget = nil
	gs.Winner = winner
	e.setPhase(PhaseEnded)
	if winner == NoWinner {
		e.logEvent(EventInfo, "", "Every lab has fallen; nobody wins")
		return
	}
	e.logEvent(EventInfo, winner, "%s wins the GPU war", gs.Faction(winner).Name)
}

func (e *Engine) setPhase(p Phase) {
	if e.state.Phase == p {
		return
	}
	e.state.Phase = p
	e.logEvent(EventPhase, "", "Phase changed to %s", p)
}

func (e *Engine) logEvent(t EventType, factionID, format string, args ...any) {
	gs := e.state
	ev := GameEvent{
		Seq:       len(gs.Events) + 1,
		Round:     gs.Round,
		Type:      t,
		FactionID: factionID,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: e.now(),
	}
	gs.Events = append(gs.Events, ev)
	e.log.Debug().Str("type", string(t)).Str("faction", factionID).Int("round", gs.Round).Msg(ev.Message)
}

func (e *Engine) draw(f *Faction) {
	if len(e.state.Deck) == 0 {
		return
	}
	f.Hand = append(f.Hand, e.state.Deck[0])
	e.state.Deck = e.state.Deck[1:]
}

func (e *Engine) discard(c Card) {
	e.state.Discard = append(e.state.Discard, c)
}
