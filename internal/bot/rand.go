package bot

// Randomizer is the randomness a Brain and its strategies draw from.
// *rand.Rand satisfies it.
type Randomizer interface {
	Float64() float64
	Intn(n int) int
}
