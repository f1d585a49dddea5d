package world

import (
	"errors"
	"testing"
)

func TestCanKillMatrix(t *testing.T) {
	want := map[[2]Kind]bool{
		{KindOrk, KindWillian}:      true,
		{KindWillian, KindWerewolf}: true,
		{KindWerewolf, KindWillian}: true,
	}
	trues := 0
	for _, a := range Kinds {
		for _, d := range Kinds {
			got := CanKill(a, d)
			if got != want[[2]Kind{a, d}] {
				t.Errorf("CanKill(%s, %s) = %v", a, d, got)
			}
			if got {
				trues++
			}
		}
	}
	if trues != 3 {
		t.Fatalf("matrix has %d kill entries, want 3", trues)
	}
}

func TestCanKillNeverReflexive(t *testing.T) {
	for _, k := range Kinds {
		if CanKill(k, k) {
			t.Fatalf("%s can kill its own kind", k)
		}
	}
	if CanKill(KindUnknown, KindWillian) || CanKill(KindOrk, KindUnknown) {
		t.Fatalf("unknown kind takes part in combat")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"Ork", KindOrk},
		{"ork", KindOrk},
		{"ORK", KindOrk},
		{"willian", KindWillian},
		{"WereWolf", KindWerewolf},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseKind(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseKind("Dragon"); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("ParseKind(Dragon) err = %v, want ErrInvalidKind", err)
	}
}

func TestKindString(t *testing.T) {
	if KindWerewolf.String() != "Werewolf" || KindUnknown.String() != "Unknown" {
		t.Fatalf("unexpected names %q %q", KindWerewolf, KindUnknown)
	}
	if KindUnknown.Valid() || !KindOrk.Valid() {
		t.Fatalf("Valid mismatch")
	}
}
