package behavior

import (
	"math/rand"
)

// Select picks one candidate with probability proportional to its weight,
// walking the cumulative weight sum in pool order. ok is false when the pool
// is empty. Pass a seeded rng to reproduce a selection sequence exactly; nil
// draws from the shared source.
func Select(pool []Candidate, rng *rand.Rand) (*Definition, bool) {
	if len(pool) == 0 {
		return nil, false
	}

	totalWeight := 0
	for _, c := range pool {
		totalWeight += c.Weight
	}
	if totalWeight <= 0 {
		return nil, false
	}

	var roll int
	if rng != nil {
		roll = rng.Intn(totalWeight)
	} else {
		roll = rand.Intn(totalWeight)
	}
	cumulative := 0
	for _, c := range pool {
		cumulative += c.Weight
		if roll < cumulative {
			return c.Def, true
		}
	}

	return pool[len(pool)-1].Def, true
}
