package world

import (
	"fmt"
	"math/rand/v2"
)

// SpawnRandom adds n actors of uniformly random kind at uniformly random
// in-bounds positions, named "<Kind>_<i>". A nil rng uses the global source.
func SpawnRandom(reg *Registry, f *Factory, n int, rng *rand.Rand) error {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	b := f.Bounds()
	for i := 0; i < n; i++ {
		kind := Kinds[intN(len(Kinds))]
		pos := Position{X: intN(b.Width), Y: intN(b.Height)}
		if err := reg.Add(f.New(kind, fmt.Sprintf("%s_%d", kind, i), pos)); err != nil {
			return fmt.Errorf("spawn %d: %w", i, err)
		}
	}
	return nil
}
