package gpuwars

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

//go:embed catalog.schema.json
var catalogSchemaJSON []byte

// AbilityTrigger selects where in the attack pipeline an ability applies.
type AbilityTrigger string

const (
	TriggerOutgoingAttack         AbilityTrigger = "OUTGOING_ATTACK"
	TriggerIncomingBuildingDamage AbilityTrigger = "INCOMING_BUILDING_DAMAGE"
	TriggerSteal                  AbilityTrigger = "STEAL"
)

// Ability is a faction's one-shot modifier: floor(amount*Multiplier)+Adder.
// An empty Categories list matches every category.
type Ability struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Trigger     AbilityTrigger `yaml:"trigger"`
	Categories  []Category     `yaml:"categories"`
	Multiplier  float64        `yaml:"multiplier"`
	Adder       int            `yaml:"adder"`
}

// Matches reports whether the ability fires for the trigger and category.
func (a Ability) Matches(trigger AbilityTrigger, category Category) bool {
	if a.Trigger != trigger {
		return false
	}
	if len(a.Categories) == 0 {
		return true
	}
	for _, c := range a.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Apply returns the modified amount.
func (a Ability) Apply(amount int) int {
	mult := a.Multiplier
	if mult == 0 {
		mult = 1
	}
	out := int(float64(amount)*mult) + a.Adder
	if out < 0 {
		return 0
	}
	return out
}

// FactionConfig is a faction's static starting configuration.
type FactionConfig struct {
	Type              FactionType `yaml:"type"`
	Name              string      `yaml:"name"`
	Building          string      `yaml:"building"`
	Archetype         Archetype   `yaml:"archetype"`
	MaxBuildingHP     int         `yaml:"max_building_hp"`
	StartingResources int         `yaml:"starting_resources"`
	Ability           Ability     `yaml:"ability"`
}

// CardTemplate describes one catalogue entry and how many copies the deck holds.
type CardTemplate struct {
	Kind        CardKind `yaml:"kind"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Count       int      `yaml:"count"`

	Effect         CovertEffect `yaml:"effect"`
	Amount         int          `yaml:"amount"`
	Steal          int          `yaml:"steal"`
	TargetAll      bool         `yaml:"target_all"`
	BackfireChance float64      `yaml:"backfire_chance"`
	BackfireDamage int          `yaml:"backfire_damage"`

	Category     Category   `yaml:"category"`
	Damage       int        `yaml:"damage"`
	Target       TargetPool `yaml:"target"`
	Heal         int        `yaml:"heal"`
	Ward         float64    `yaml:"ward"`
	SelfDamage   int        `yaml:"self_damage"`
	DisableTurns int        `yaml:"disable_turns"`
	CaptureBelow int        `yaml:"capture_below"`

	Blocks    Category `yaml:"blocks"`
	FullBlock bool     `yaml:"full_block"`
	Reduction float64  `yaml:"reduction"`
	Reflect   bool     `yaml:"reflect"`
}

// NewCard instantiates the template as a card with the given id.
func (t CardTemplate) NewCard(id string) (Card, error) {
	base := CardBase{ID: id, Name: t.Name, Description: t.Description}
	switch t.Kind {
	case KindCovertOp:
		return &CovertOpCard{CardBase: base, Effect: t.Effect, Amount: t.Amount}, nil
	case KindPropaganda:
		return &PropagandaCard{CardBase: base, Steal: t.Steal, TargetAll: t.TargetAll, BackfireChance: t.BackfireChance}, nil
	case KindOrganization:
		return &OrganizationCard{CardBase: base, Category: t.Category}, nil
	case KindActionPlan:
		target := t.Target
		if target == "" {
			target = PoolBuilding
		}
		return &ActionPlanCard{
			CardBase:       base,
			Category:       t.Category,
			Damage:         t.Damage,
			Target:         target,
			Heal:           t.Heal,
			Ward:           t.Ward,
			SelfDamage:     t.SelfDamage,
			DisableTurns:   t.DisableTurns,
			CaptureBelow:   t.CaptureBelow,
			BackfireChance: t.BackfireChance,
			BackfireDamage: t.BackfireDamage,
		}, nil
	case KindDefense:
		return &DefenseCard{CardBase: base, Blocks: t.Blocks, FullBlock: t.FullBlock, Reduction: t.Reduction, Reflect: t.Reflect}, nil
	default:
		return nil, fmt.Errorf("unknown card kind %q", t.Kind)
	}
}

// Catalog is the read-only card and faction configuration.
type Catalog struct {
	Denominations []int           `yaml:"denominations"`
	HandSize      int             `yaml:"hand_size"`
	QueueCapacity int             `yaml:"queue_capacity"`
	Seating       []FactionType   `yaml:"seating"`
	Factions      []FactionConfig `yaml:"factions"`
	Cards         []CardTemplate  `yaml:"cards"`
}

// Faction returns the configuration for a faction type.
func (c *Catalog) Faction(t FactionType) (FactionConfig, bool) {
	for _, f := range c.Factions {
		if f.Type == t {
			return f, true
		}
	}
	return FactionConfig{}, false
}

// DeckSize returns the number of cards BuildDeck produces.
func (c *Catalog) DeckSize() int {
	n := 0
	for _, t := range c.Cards {
		n += t.Count
	}
	return n
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
	defaultCatalogErr  error
)

// DefaultCatalog returns the embedded catalogue.
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = ParseCatalog(defaultCatalogYAML)
	})
	return defaultCatalog, defaultCatalogErr
}

// LoadCatalog reads and validates a catalogue file.
func LoadCatalog(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes YAML, validates it against the catalogue schema and
// checks cross-references the schema cannot express.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}
	if err := validateCatalogDoc(raw); err != nil {
		return nil, err
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}
	for _, t := range c.Seating {
		if _, ok := c.Faction(t); !ok {
			return nil, fmt.Errorf("catalog: seating references unknown faction %s", t)
		}
	}
	return &c, nil
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func catalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("catalog.schema.json", bytes.NewReader(catalogSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("catalog.schema.json")
	})
	return compiledSchema, schemaErr
}

func validateCatalogDoc(raw any) error {
	schema, err := catalogSchema()
	if err != nil {
		return fmt.Errorf("catalog schema: %w", err)
	}
	// yaml.v3 decodes numbers as Go ints; the validator wants JSON values.
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}
