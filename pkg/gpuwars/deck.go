package gpuwars

import (
	"fmt"
	"math/rand"
	"sort"
)

// IDGenerator hands out sequential ids per prefix. Each engine owns one so
// parallel games never share counters.
type IDGenerator struct {
	counters map[string]int
}

// NewIDGenerator returns an empty generator.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{counters: make(map[string]int)}
}

// Next returns the next id for prefix, e.g. "card-1", "card-2".
func (g *IDGenerator) Next(prefix string) string {
	g.counters[prefix]++
	return fmt.Sprintf("%s-%d", prefix, g.counters[prefix])
}

// BuildDeck expands the catalogue templates by count and shuffles the result.
func BuildDeck(c *Catalog, ids *IDGenerator, rng *rand.Rand) ([]Card, error) {
	deck := make([]Card, 0, c.DeckSize())
	for _, t := range c.Cards {
		for i := 0; i < t.Count; i++ {
			card, err := t.NewCard(ids.Next("card"))
			if err != nil {
				return nil, fmt.Errorf("build deck: %s: %w", t.Name, err)
			}
			deck = append(deck, card)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck, nil
}

// MintResources converts total into tokens, largest denomination first.
// The sum of the returned values is exactly total.
func MintResources(denominations []int, ids *IDGenerator, total int) []ResourceCard {
	denoms := sortedDenominations(denominations)
	var out []ResourceCard
	remaining := total
	for _, d := range denoms {
		for remaining >= d {
			out = append(out, ResourceCard{ID: ids.Next("gpu"), Value: d})
			remaining -= d
		}
	}
	return out
}

func sortedDenominations(denominations []int) []int {
	denoms := append([]int(nil), denominations...)
	sort.Sort(sort.Reverse(sort.IntSlice(denoms)))
	if len(denoms) == 0 || denoms[len(denoms)-1] != 1 {
		// A unit token guarantees any total can be minted exactly.
		denoms = append(denoms, 1)
	}
	return denoms
}

func sumResources(cards []ResourceCard) int {
	total := 0
	for _, c := range cards {
		total += c.Value
	}
	return total
}
