package render

import (
	"strings"
	"testing"

	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/world"
)

func TestFrame(t *testing.T) {
	ork := world.NewActor(world.KindOrk, "ork", world.Position{X: 0, Y: 0})
	wolf := world.NewActor(world.KindWerewolf, "wolf", world.Position{X: 3, Y: 1})
	dead := world.NewActor(world.KindWillian, "dead", world.Position{X: 1, Y: 2})
	dead.Kill()

	got := Frame([]*world.Actor{ork, wolf, dead}, world.Bounds{Width: 4, Height: 3}, data.DefaultKindTable(), 7)
	want := "Seconds left: 7 | Alive: 2\n" +
		"O...\n" +
		"...W\n" +
		"....\n"
	if got != want {
		t.Fatalf("frame:\n%s\nwant:\n%s", got, want)
	}
}

func TestSurvivors(t *testing.T) {
	ork := world.NewActor(world.KindOrk, "Thrall", world.Position{X: 4, Y: 5})
	dead := world.NewActor(world.KindWillian, "Robin", world.Position{})
	dead.Kill()

	got := Survivors([]*world.Actor{ork, dead})
	if !strings.Contains(got, "=== Survivors ===") || !strings.Contains(got, "Thrall (Ork) at {4, 5}") {
		t.Fatalf("report = %q", got)
	}
	if strings.Contains(got, "Robin") {
		t.Fatalf("dead actor listed: %q", got)
	}
}

func TestRoster(t *testing.T) {
	ork := world.NewActor(world.KindOrk, "Thrall", world.Position{X: 10, Y: 20})
	dead := world.NewActor(world.KindWillian, "Robin", world.Position{X: 0, Y: 99})
	dead.Kill()

	got := Roster([]*world.Actor{ork, dead})
	want := "--- Arena Objects ---\n" +
		"Ork: Thrall {10, 20}\n" +
		"Willian: Robin {0, 99}\n"
	if got != want {
		t.Fatalf("roster = %q, want %q", got, want)
	}
	if Roster(nil) != "--- Arena Objects ---\n" {
		t.Fatalf("empty roster = %q", Roster(nil))
	}
}
