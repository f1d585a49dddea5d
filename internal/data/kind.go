package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/arena/internal/world"
	"gopkg.in/yaml.v3"
)

// KindStats holds the per-kind tuning loaded from YAML.
type KindStats struct {
	Name         string `yaml:"name"`
	Symbol       string `yaml:"symbol"`
	MoveDistance int    `yaml:"move_distance"`
	KillDistance int    `yaml:"kill_distance"`
}

type kindListFile struct {
	Kinds []KindStats `yaml:"kinds"`
}

// KindTable maps each kind to its movement and kill ranges.
type KindTable struct {
	stats map[world.Kind]KindStats
}

// DefaultKindTable returns the stock ranges.
func DefaultKindTable() *KindTable {
	return &KindTable{stats: map[world.Kind]KindStats{
		world.KindOrk:      {Name: "Ork", Symbol: "O", MoveDistance: 20, KillDistance: 10},
		world.KindWillian:  {Name: "Willian", Symbol: "R", MoveDistance: 10, KillDistance: 10},
		world.KindWerewolf: {Name: "Werewolf", Symbol: "W", MoveDistance: 40, KillDistance: 5},
	}}
}

// LoadKindTable reads a kind table from YAML. Kinds missing from the file
// keep their defaults.
func LoadKindTable(path string) (*KindTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kind_list: %w", err)
	}
	return ParseKindTable(data)
}

// ParseKindTable decodes YAML kind table bytes.
func ParseKindTable(data []byte) (*KindTable, error) {
	var f kindListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse kind_list: %w", err)
	}
	t := DefaultKindTable()
	for _, s := range f.Kinds {
		k, err := world.ParseKind(s.Name)
		if err != nil {
			return nil, fmt.Errorf("parse kind_list: %w", err)
		}
		if s.MoveDistance < 0 || s.KillDistance < 0 {
			return nil, fmt.Errorf("parse kind_list: %s: negative distance", s.Name)
		}
		if s.Symbol == "" {
			s.Symbol = t.stats[k].Symbol
		}
		s.Name = k.String()
		t.stats[k] = s
	}
	return t, nil
}

// Get returns the stats for k; unknown kinds get a zero value that never
// moves or kills.
func (t *KindTable) Get(k world.Kind) KindStats {
	return t.stats[k]
}

func (t *KindTable) MoveDistance(k world.Kind) int { return t.stats[k].MoveDistance }
func (t *KindTable) KillDistance(k world.Kind) int { return t.stats[k].KillDistance }

// Symbol returns the single map character for k, '?' when unknown.
func (t *KindTable) Symbol(k world.Kind) byte {
	s := t.stats[k].Symbol
	if s == "" {
		return '?'
	}
	return s[0]
}

// Count returns the number of configured kinds.
func (t *KindTable) Count() int {
	return len(t.stats)
}
