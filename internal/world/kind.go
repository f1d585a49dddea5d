package world

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
)

// Kind is the closed set of creature categories.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindOrk
	KindWillian
	KindWerewolf
)

// Kinds lists every valid kind in declaration order.
var Kinds = []Kind{KindOrk, KindWillian, KindWerewolf}

var ErrInvalidKind = errors.New("invalid kind")

var kindNames = map[Kind]string{
	KindOrk:      "Ork",
	KindWillian:  "Willian",
	KindWerewolf: "Werewolf",
}

// String returns the persisted name of the kind.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Unknown"
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

var folder = cases.Fold()

// ParseKind resolves a kind name case-insensitively ("ork", "ORK" and "Ork"
// all name KindOrk).
func ParseKind(name string) (Kind, error) {
	folded := folder.String(name)
	for k, n := range kindNames {
		if folder.String(n) == folded {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrInvalidKind, name)
}

// CanKill reports whether an attacker of kind a is eligible to kill a defender
// of kind d. The relation is fixed:
//
//	Ork      kills Willian
//	Willian  kills Werewolf
//	Werewolf kills Willian
//
// No kind kills its own kind.
func CanKill(a, d Kind) bool {
	switch a {
	case KindOrk:
		return d == KindWillian
	case KindWillian:
		return d == KindWerewolf
	case KindWerewolf:
		return d == KindWillian
	}
	return false
}
