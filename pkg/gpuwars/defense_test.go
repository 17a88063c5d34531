package gpuwars

import (
	"errors"
	"testing"
)

func TestPendingAttackBlocksOtherActions(t *testing.T) {
	e := newTestEngine(t, OpenG)
	clearHands(e)
	attacker := mustFaction(t, e, Camel)
	defender := mustFaction(t, e, Sloth)
	org := loadOrg(t, e, attacker, "Botnet Army", "Logic Bomb")
	give(t, e, defender, "Intrusion Detection")
	spare := give(t, e, attacker, "GPU Heist")

	res, err := e.ExecuteAttack(attacker.ID, defender.ID, org.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != AttackPendingDefense || e.state.PendingAttack == nil {
		t.Fatalf("expected pending defense, got %s", res.Status)
	}
	if defender.BuildingHP != defender.MaxBuildingHP {
		t.Error("pending attack must not land yet")
	}

	if err := e.AddCardToQueue(attacker.ID, spare.CardID()); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("enqueue during pending attack: %v", err)
	}
	if err := e.NextTurn(); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("next turn during pending attack: %v", err)
	}
	if err := e.DeclineDefense(attacker.ID); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("decline by the wrong faction: %v", err)
	}
}

func TestFullBlockNegatesAttack(t *testing.T) {
	e := newTestEngine(t, OpenG)
	clearHands(e)
	attacker := mustFaction(t, e, Camel)
	defender := mustFaction(t, e, Sloth)
	org := loadOrg(t, e, attacker, "Botnet Army", "Logic Bomb")
	block := give(t, e, defender, "Intrusion Detection")

	if _, err := e.ExecuteAttack(attacker.ID, defender.ID, org.ID); err != nil {
		t.Fatal(err)
	}
	discards := len(e.state.Discard)
	if err := e.PlayDefenseCard(defender.ID, block.CardID()); err != nil {
		t.Fatalf("PlayDefenseCard: %v", err)
	}
	if defender.BuildingHP != defender.MaxBuildingHP {
		t.Errorf("blocked attack dealt damage: HP %d", defender.BuildingHP)
	}
	if org.Ready() {
		t.Error("blocked plan should be spent")
	}
	if len(e.state.Discard) != discards+2 {
		t.Errorf("expected defense and plan discarded, discard grew by %d", len(e.state.Discard)-discards)
	}
	if defender.CardInHand(block.CardID()) != nil {
		t.Error("defense card still in hand")
	}
	if e.Phase() != PhasePeacetime {
		t.Errorf("blocked attack must not start conflict, phase %s", e.Phase())
	}
	if e.state.PendingAttack != nil {
		t.Error("pending attack not cleared")
	}
}

func TestReductionDefenses(t *testing.T) {
	tests := []struct {
		name     string
		org      string
		plan     string
		defense  string
		wantHP   int
		wantSkip int
	}{
		{"fractional reduction", "Drone Swarm", "EMP Strike", "Redundant Systems", 120 - 7, 0},
		{"flat reduction", "Autonomous Legion", "Blockade", "Hardened Bunker", 120, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, OpenG)
			clearHands(e)
			attacker := mustFaction(t, e, Camel)
			defender := mustFaction(t, e, Sloth)
			org := loadOrg(t, e, attacker, tt.org, tt.plan)
			def := give(t, e, defender, tt.defense)

			if _, err := e.ExecuteAttack(attacker.ID, defender.ID, org.ID); err != nil {
				t.Fatal(err)
			}
			if err := e.PlayDefenseCard(defender.ID, def.CardID()); err != nil {
				t.Fatalf("PlayDefenseCard: %v", err)
			}
			if defender.BuildingHP != tt.wantHP {
				t.Errorf("expected HP %d, got %d", tt.wantHP, defender.BuildingHP)
			}
			if defender.SkipTurns != tt.wantSkip {
				t.Errorf("expected %d skipped turns, got %d", tt.wantSkip, defender.SkipTurns)
			}
		})
	}
}

func TestDeclineDefenseLandsFullDamage(t *testing.T) {
	e := newTestEngine(t, OpenG)
	clearHands(e)
	attacker := mustFaction(t, e, Camel)
	defender := mustFaction(t, e, Sloth)
	org := loadOrg(t, e, attacker, "Drone Swarm", "EMP Strike")
	kept := give(t, e, defender, "Redundant Systems")

	if _, err := e.ExecuteAttack(attacker.ID, defender.ID, org.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.DeclineDefense(defender.ID); err != nil {
		t.Fatalf("DeclineDefense: %v", err)
	}
	if defender.BuildingHP != 105 {
		t.Errorf("expected 15 damage, HP %d", defender.BuildingHP)
	}
	if defender.CardInHand(kept.CardID()) == nil {
		t.Error("declining must keep the defense card")
	}
	if e.Phase() != PhaseConflict {
		t.Errorf("expected CONFLICT, got %s", e.Phase())
	}
}

func TestPlayDefenseCardValidation(t *testing.T) {
	e := newTestEngine(t, OpenG)
	clearHands(e)
	attacker := mustFaction(t, e, Camel)
	defender := mustFaction(t, e, Sloth)
	org := loadOrg(t, e, attacker, "Drone Swarm", "EMP Strike")
	valid := give(t, e, defender, "Anti-Drone System")
	wrongCategory := give(t, e, defender, "Intrusion Detection")
	notDefense := give(t, e, defender, "GPU Heist")
	elsewhere := give(t, e, attacker, "Anti-Drone System")

	if err := e.PlayDefenseCard(defender.ID, valid.CardID()); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("defense with nothing pending: %v", err)
	}
	if _, err := e.ExecuteAttack(attacker.ID, defender.ID, org.ID); err != nil {
		t.Fatal(err)
	}

	for name, id := range map[string]string{
		"wrong category": wrongCategory.CardID(),
		"not a defense":  notDefense.CardID(),
		"not in hand":    elsewhere.CardID(),
	} {
		if err := e.PlayDefenseCard(defender.ID, id); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("%s: expected ErrInvalidOperation, got %v", name, err)
		}
	}
	if e.state.PendingAttack == nil || len(defender.Hand) != 3 {
		t.Fatal("rejected defense mutated state")
	}
	if err := e.PlayDefenseCard(defender.ID, valid.CardID()); err != nil {
		t.Errorf("valid defense rejected: %v", err)
	}
}

func TestCounterIntelligenceReflectsPropaganda(t *testing.T) {
	e := newTestEngine(t, OpenG)
	clearHands(e)
	actor := mustFaction(t, e, Gemaica)
	target := mustFaction(t, e, OpenG) // first opponent in seating order
	counter := give(t, e, target, "Counter-Intelligence")
	actor.Queue = []Card{testCard(t, e, "Deepfake Campaign")}

	if err := e.RevealAndResolve(actor.ID); err != nil {
		t.Fatal(err)
	}
	pa := e.state.PendingAttack
	if pa == nil || pa.DefenderID != target.ID || pa.Category != CategoryPropaganda {
		t.Fatalf("expected pending propaganda against %s, got %+v", target.ID, pa)
	}
	if pa.Damage != 20 {
		t.Errorf("expected steal boosted to 20 by the steal ability, got %d", pa.Damage)
	}

	if err := e.PlayDefenseCard(target.ID, counter.CardID()); err != nil {
		t.Fatal(err)
	}
	if target.ResourceTotal != 370 || actor.ResourceTotal != 980 {
		t.Errorf("expected reflected steal 350->370 and 1000->980, got %d and %d", target.ResourceTotal, actor.ResourceTotal)
	}
}

func TestReduceDamage(t *testing.T) {
	tests := []struct {
		damage    int
		reduction float64
		want      int
	}{
		{15, 0.5, 7},
		{30, 0.25, 22},
		{40, 25, 15},
		{25, 25, 0},
		{10, 25, 0},
		{0, 0.5, 0},
	}
	for _, tt := range tests {
		if got := ReduceDamage(tt.damage, tt.reduction); got != tt.want {
			t.Errorf("ReduceDamage(%d, %v) = %d, want %d", tt.damage, tt.reduction, got, tt.want)
		}
	}
}
