package world

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
)

func TestFactoryCreate(t *testing.T) {
	var msgs []string
	f := NewFactory(Bounds{Width: 100, Height: 100}, &captureListener{msgs: &msgs})

	a, err := f.Create("Ork", "Thrall", 10, 20)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Kind() != KindOrk || a.Name() != "Thrall" || a.Position() != (Position{10, 20}) {
		t.Fatalf("unexpected actor %s %s %v", a.Kind(), a.Name(), a.Position())
	}
	if !a.Alive() {
		t.Fatalf("fresh actor is dead")
	}
	a.Notify("x")
	if len(msgs) != 1 {
		t.Fatalf("standard listener not attached")
	}

	if _, err := f.Create("willian", "Robin", 0, 99); err != nil {
		t.Fatalf("lowercase kind: %v", err)
	}
}

func TestFactoryRejects(t *testing.T) {
	f := NewFactory(Bounds{Width: 100, Height: 100})
	tests := []struct {
		kind string
		x, y int
		want error
	}{
		{"Dragon", 10, 10, ErrInvalidKind},
		{"Ork", -1, 50, ErrOutOfBounds},
		{"Ork", 50, -1, ErrOutOfBounds},
		{"Ork", 100, 50, ErrOutOfBounds},
		{"Ork", 50, 100, ErrOutOfBounds},
	}
	for _, tt := range tests {
		if _, err := f.Create(tt.kind, "Bad", tt.x, tt.y); !errors.Is(err, tt.want) {
			t.Errorf("Create(%s, %d, %d) err = %v, want %v", tt.kind, tt.x, tt.y, err, tt.want)
		}
	}
}

func TestBoundsClamp(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	tests := []struct{ in, want Position }{
		{Position{-5, 50}, Position{0, 50}},
		{Position{150, 50}, Position{99, 50}},
		{Position{50, -1}, Position{50, 0}},
		{Position{50, 200}, Position{50, 99}},
		{Position{7, 8}, Position{7, 8}},
	}
	for _, tt := range tests {
		if got := b.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSpawnRandom(t *testing.T) {
	b := Bounds{Width: 7, Height: 3}
	reg := NewRegistry()
	if err := SpawnRandom(reg, NewFactory(b), 40, rand.New(rand.NewPCG(1, 2))); err != nil {
		t.Fatalf("SpawnRandom: %v", err)
	}
	if reg.Len() != 40 {
		t.Fatalf("len = %d", reg.Len())
	}
	for i, a := range reg.Snapshot() {
		if !b.Contains(a.Position()) {
			t.Fatalf("%s out of bounds at %v", a.Name(), a.Position())
		}
		if want := fmt.Sprintf("%s_%d", a.Kind(), i); a.Name() != want {
			t.Fatalf("name = %q, want %q", a.Name(), want)
		}
		if !a.Kind().Valid() || !a.Alive() {
			t.Fatalf("bad actor %s", a.Name())
		}
	}
}
