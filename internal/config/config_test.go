package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arena.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[arena]
width = 40
duration = "5s"
evict_dead = true
opening_battle = 7

[journal]
driver = "sqlite"
dsn = "run/journal.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Arena.Width != 40 || cfg.Arena.Height != 100 {
		t.Fatalf("size = %dx%d", cfg.Arena.Width, cfg.Arena.Height)
	}
	if cfg.Arena.Duration != 5*time.Second || cfg.Arena.TickRate != 200*time.Millisecond {
		t.Fatalf("durations = %v %v", cfg.Arena.Duration, cfg.Arena.TickRate)
	}
	if !cfg.Arena.EvictDead || cfg.Arena.OpeningBattle != 7 {
		t.Fatalf("arena flags = %+v", cfg.Arena)
	}
	if cfg.Journal.Driver != "sqlite" || cfg.Journal.DSN != "run/journal.db" || cfg.Journal.MaxOpenConns != 4 {
		t.Fatalf("journal = %+v", cfg.Journal)
	}
	if cfg.Storage.SavePath != "npcs.txt" {
		t.Fatalf("save path = %q", cfg.Storage.SavePath)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"syntax":   "[arena\nwidth = 1",
		"size":     "[arena]\nwidth = 0",
		"duration": "[arena]\nduration = \"-1s\"",
		"driver":   "[journal]\ndriver = \"mysql\"",
		"negative": "[arena]\ninitial_population = -3",
		"battle":   "[arena]\nopening_battle = -1",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("accepted %q", body)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}
