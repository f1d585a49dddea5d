package combat

import "math/rand/v2"

// Dice rolls one fight: an attack and a defense value, each in [1,6].
type Dice interface {
	Roll() (attack, defense int)
}

// RandDice draws from the runtime-seeded global source, so runs are not
// reproducible.
type RandDice struct{}

func (RandDice) Roll() (int, int) {
	return rand.IntN(6) + 1, rand.IntN(6) + 1
}

// FixedDice always returns the same roll.
type FixedDice struct {
	Attack, Defense int
}

func (d FixedDice) Roll() (int, int) { return d.Attack, d.Defense }

// ClampRoll forces v into [1,6].
func ClampRoll(v int) int {
	if v < 1 {
		return 1
	}
	if v > 6 {
		return 6
	}
	return v
}
