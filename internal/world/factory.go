package world

import "fmt"

// Factory builds actors from kind names and attaches the standard listeners
// to each one.
type Factory struct {
	bounds    Bounds
	listeners []Listener
}

func NewFactory(bounds Bounds, listeners ...Listener) *Factory {
	return &Factory{bounds: bounds, listeners: listeners}
}

func (f *Factory) Bounds() Bounds { return f.bounds }

// Create validates kindName and the coordinates, then returns a live actor
// with the factory's listeners attached.
func (f *Factory) Create(kindName, name string, x, y int) (*Actor, error) {
	pos := Position{X: x, Y: y}
	if err := f.bounds.Check(pos); err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	kind, err := ParseKind(kindName)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return f.New(kind, name, pos), nil
}

// New builds an actor of a known kind without validation.
func (f *Factory) New(kind Kind, name string, pos Position) *Actor {
	a := NewActor(kind, name, pos)
	for _, l := range f.listeners {
		a.Attach(l)
	}
	return a
}
