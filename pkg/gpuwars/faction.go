package gpuwars

import "sort"

// Faction is one lab's mutable record. Only the Engine mutates it.
type Faction struct {
	ID                string
	Type              FactionType
	Name              string
	Archetype         Archetype
	Human             bool
	Ability           Ability
	Resources         []ResourceCard
	ResourceTotal     int
	StartingResources int
	BuildingHP        int
	MaxBuildingHP     int
	Hand              []Card
	Queue             []Card
	Organizations     []*OrganizationCard
	AbilityUsed       bool
	Eliminated        bool
	EliminatedRound   int
	CapturedBuildings []string

	// Ward is a one-shot fraction removed from the next attack received.
	Ward float64
	// SkipTurns counts turns the faction will be passed over.
	SkipTurns int
	// RedirectNextAttack sends the faction's next attack to a random
	// survivor other than the chosen defender.
	RedirectNextAttack bool
}

// Clone returns a deep copy of the faction.
func (f *Faction) Clone() *Faction {
	c := *f
	if f.Resources != nil {
		c.Resources = append([]ResourceCard(nil), f.Resources...)
	}
	c.Hand = cloneCards(f.Hand)
	c.Queue = cloneCards(f.Queue)
	if f.Organizations != nil {
		c.Organizations = make([]*OrganizationCard, len(f.Organizations))
		for i, o := range f.Organizations {
			c.Organizations[i] = o.Clone().(*OrganizationCard)
		}
	}
	if f.CapturedBuildings != nil {
		c.CapturedBuildings = append([]string(nil), f.CapturedBuildings...)
	}
	if f.Ability.Categories != nil {
		c.Ability.Categories = append([]Category(nil), f.Ability.Categories...)
	}
	return &c
}

// BuildingAlive reports whether the faction's server farm still stands.
func (f *Faction) BuildingAlive() bool { return f.BuildingHP > 0 }

// HealthPercent is building HP as a fraction of its maximum.
func (f *Faction) HealthPercent() float64 {
	if f.MaxBuildingHP <= 0 {
		return 0
	}
	return float64(f.BuildingHP) / float64(f.MaxBuildingHP)
}

// PoolValue returns the current value of the given target pool.
func (f *Faction) PoolValue(pool TargetPool) int {
	if pool == PoolBuilding {
		return f.BuildingHP
	}
	return f.ResourceTotal
}

// PoolMax returns the reference maximum of a pool: max building HP or the
// configured starting resources.
func (f *Faction) PoolMax(pool TargetPool) int {
	if pool == PoolBuilding {
		return f.MaxBuildingHP
	}
	return f.StartingResources
}

// ReadyOrganizations returns organizations holding an attached action plan.
func (f *Faction) ReadyOrganizations() []*OrganizationCard {
	var out []*OrganizationCard
	for _, o := range f.Organizations {
		if o.Ready() {
			out = append(out, o)
		}
	}
	return out
}

// HasReadyAttack reports whether any organization is loaded.
func (f *Faction) HasReadyAttack() bool {
	for _, o := range f.Organizations {
		if o.Ready() {
			return true
		}
	}
	return false
}

// Organization finds an in-play organization by id.
func (f *Faction) Organization(id string) *OrganizationCard {
	for _, o := range f.Organizations {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// DefenseCardsFor returns hand defense cards blocking the category.
func (f *Faction) DefenseCardsFor(category Category) []*DefenseCard {
	var out []*DefenseCard
	for _, c := range f.Hand {
		if d, ok := c.(*DefenseCard); ok && d.Blocks == category {
			out = append(out, d)
		}
	}
	return out
}

// CardInHand finds a hand card by id.
func (f *Faction) CardInHand(id string) Card {
	if i := indexOfCard(f.Hand, id); i >= 0 {
		return f.Hand[i]
	}
	return nil
}

// CountKind counts hand cards of a kind.
func (f *Faction) CountKind(kind CardKind) int {
	n := 0
	for _, c := range f.Hand {
		if c.Kind() == kind {
			n++
		}
	}
	return n
}

// removeResources takes amount from the pool in two passes: whole tokens,
// largest first, while they fit; then the smallest remaining token is broken
// and change minted. Returns the value actually removed.
func (f *Faction) removeResources(amount int, denominations []int, ids *IDGenerator) int {
	if amount <= 0 || f.ResourceTotal == 0 {
		return 0
	}
	before := f.ResourceTotal

	tokens := append([]ResourceCard(nil), f.Resources...)
	sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].Value > tokens[j].Value })

	remaining := amount
	kept := make([]ResourceCard, 0, len(tokens))
	for _, t := range tokens {
		if t.Value <= remaining {
			remaining -= t.Value
			continue
		}
		kept = append(kept, t)
	}

	// Every kept token is larger than the remainder; the last is the smallest.
	if remaining > 0 && len(kept) > 0 {
		broken := kept[len(kept)-1]
		kept = kept[:len(kept)-1]
		kept = append(kept, MintResources(denominations, ids, broken.Value-remaining)...)
	}

	f.Resources = kept
	f.ResourceTotal = sumResources(kept)
	return before - f.ResourceTotal
}

// addResources mints amount into the pool.
func (f *Faction) addResources(amount int, denominations []int, ids *IDGenerator) {
	if amount <= 0 {
		return
	}
	f.Resources = append(f.Resources, MintResources(denominations, ids, amount)...)
	f.ResourceTotal = sumResources(f.Resources)
}

// damageBuilding floors HP at zero and returns the damage dealt. A destroyed
// building permanently disables the faction's ability.
func (f *Faction) damageBuilding(amount int) int {
	if amount <= 0 || f.BuildingHP == 0 {
		return 0
	}
	dealt := min(amount, f.BuildingHP)
	f.BuildingHP -= dealt
	if f.BuildingHP == 0 {
		f.AbilityUsed = true
	}
	return dealt
}

func (f *Faction) healBuilding(amount int) int {
	if amount <= 0 || f.BuildingHP == 0 {
		return 0
	}
	healed := min(amount, f.MaxBuildingHP-f.BuildingHP)
	f.BuildingHP += healed
	return healed
}

func (f *Faction) removeFromHand(id string) Card {
	i := indexOfCard(f.Hand, id)
	if i < 0 {
		return nil
	}
	c := f.Hand[i]
	f.Hand = removeCardAt(f.Hand, i)
	return c
}
