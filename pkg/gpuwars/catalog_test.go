package gpuwars

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minimalCatalog = `
denominations: [10, 1]
hand_size: 2
queue_capacity: 3
seating: [OPENG, CLARISA]
factions:
  - {type: OPENG, name: OpenG, archetype: AGGRESSIVE, max_building_hp: 100, starting_resources: 50, ability: {name: Boost, trigger: OUTGOING_ATTACK, multiplier: 2}}
  - {type: CLARISA, name: Clarisa, archetype: DEFENSIVE, max_building_hp: 100, starting_resources: 50, ability: {name: Shield, trigger: INCOMING_BUILDING_DAMAGE, multiplier: 0.5}}
cards:
  - {kind: ORGANIZATION, name: Drone Swarm, category: THROWING, count: 4}
  - {kind: ACTION_PLAN, name: Recon Drones, category: THROWING, damage: 10, count: 4}
`

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	if c.DeckSize() != 104 {
		t.Errorf("expected 104 cards, got %d", c.DeckSize())
	}
	if len(c.Factions) != 5 || len(c.Seating) != 5 {
		t.Errorf("expected 5 factions seated, got %d/%d", len(c.Factions), len(c.Seating))
	}
	if c.HandSize != 9 || c.QueueCapacity != 3 {
		t.Errorf("unexpected hand/queue sizes %d/%d", c.HandSize, c.QueueCapacity)
	}
	for _, ft := range AllFactionTypes() {
		if _, ok := c.Faction(ft); !ok {
			t.Errorf("faction %s missing", ft)
		}
	}
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(minimalCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if c.DeckSize() != 8 {
		t.Errorf("expected 8 cards, got %d", c.DeckSize())
	}
	plan, err := c.Cards[1].NewCard("x-1")
	if err != nil {
		t.Fatal(err)
	}
	if ap := plan.(*ActionPlanCard); ap.Target != PoolBuilding {
		t.Errorf("expected action plans to target the building by default, got %s", ap.Target)
	}

	e, err := NewEngine(Config{Catalog: c, HumanFaction: Clarisa, Seed: 3})
	if err != nil {
		t.Fatalf("NewEngine with custom catalogue: %v", err)
	}
	if len(e.state.Factions) != 2 || len(e.state.Deck) != 4 {
		t.Errorf("unexpected setup: %d factions, %d in deck", len(e.state.Factions), len(e.state.Deck))
	}
}

func TestParseCatalogRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		edit func(string) string
	}{
		{"not yaml", func(string) string { return "cards: [" }},
		{"unknown kind", func(s string) string { return strings.Replace(s, "kind: ORGANIZATION", "kind: SPELL", 1) }},
		{"missing count", func(s string) string { return strings.Replace(s, ", count: 4}", "}", 1) }},
		{"negative damage", func(s string) string { return strings.Replace(s, "damage: 10", "damage: -10", 1) }},
		{"unknown trigger", func(s string) string { return strings.Replace(s, "OUTGOING_ATTACK", "ALWAYS", 1) }},
		{"seating without faction", func(s string) string { return strings.Replace(s, "[OPENG, CLARISA]", "[OPENG, CAMEL]", 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.edit(minimalCatalog))); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(minimalCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(path); err != nil {
		t.Errorf("LoadCatalog: %v", err)
	}
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAbilityApply(t *testing.T) {
	tests := []struct {
		a      Ability
		amount int
		want   int
	}{
		{Ability{Multiplier: 1.5}, 30, 45},
		{Ability{Multiplier: 1.5}, 15, 22},
		{Ability{Multiplier: 0.5}, 15, 7},
		{Ability{Adder: 10}, 10, 20},
		{Ability{Multiplier: 2}, 10, 20},
	}
	for _, tt := range tests {
		if got := tt.a.Apply(tt.amount); got != tt.want {
			t.Errorf("%+v.Apply(%d) = %d, want %d", tt.a, tt.amount, got, tt.want)
		}
	}

	a := Ability{Trigger: TriggerOutgoingAttack, Categories: []Category{CategoryThrowing}}
	if !a.Matches(TriggerOutgoingAttack, CategoryThrowing) || a.Matches(TriggerOutgoingAttack, CategoryProtest) || a.Matches(TriggerSteal, CategoryThrowing) {
		t.Error("category-restricted ability matched incorrectly")
	}
	wildcard := Ability{Trigger: TriggerSteal}
	if !wildcard.Matches(TriggerSteal, CategoryPropaganda) {
		t.Error("ability without categories should match every category")
	}
}
