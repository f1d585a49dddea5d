package system

import "github.com/l1jgo/arena/internal/world"

// Battle runs one dice-free round over the registry. Every ordered pair of
// live members within distance where the attacker can kill the defender
// counts as a kill: the defender is told "<attacker> killed <defender>".
// All pairs are judged against the state at the start of the round, so a
// victim may still land its own kill. The victims are then marked dead and
// evicted in a single write. Returns the number evicted.
func Battle(reg *world.Registry, distance int) int {
	snap := reg.Snapshot()
	alive := make([]bool, len(snap))
	for i, a := range snap {
		alive[i] = a.Alive()
	}

	marked := make(map[*world.Actor]struct{})
	var dead []*world.Actor
	for i, atk := range snap {
		if !alive[i] {
			continue
		}
		for j, def := range snap {
			if !alive[j] || !world.CanKill(atk.Kind(), def.Kind()) || !atk.Close(def, distance) {
				continue
			}
			def.Notify(atk.Name() + " killed " + def.Name())
			if _, seen := marked[def]; !seen {
				marked[def] = struct{}{}
				dead = append(dead, def)
			}
		}
	}

	for _, a := range dead {
		a.Kill()
	}
	return reg.RemoveAll(dead)
}
