package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Arena     ArenaConfig     `toml:"arena"`
	Data      DataConfig      `toml:"data"`
	Storage   StorageConfig   `toml:"storage"`
	Journal   JournalConfig   `toml:"journal"`
	Scripting ScriptingConfig `toml:"scripting"`
	Spectator SpectatorConfig `toml:"spectator"`
	Logging   LoggingConfig   `toml:"logging"`
}

type ArenaConfig struct {
	Width             int           `toml:"width"`
	Height            int           `toml:"height"`
	InitialPopulation int           `toml:"initial_population"` // used when no roster is loaded
	Duration          time.Duration `toml:"duration"`
	RenderPeriod      time.Duration `toml:"render_period"`
	TickRate          time.Duration `toml:"tick_rate"`
	EvictDead         bool          `toml:"evict_dead"` // remove corpses instead of flagging them
	OpeningBattle     int           `toml:"opening_battle"` // dice-free round at this distance before the run; 0 skips
}

type DataConfig struct {
	KindTable string `toml:"kind_table"`
}

type StorageConfig struct {
	LoadPath string `toml:"load_path"` // roster read at startup; empty spawns a random population
	SavePath string `toml:"save_path"` // roster written at shutdown; ".zst" compresses
	EventLog string `toml:"event_log"` // file observer output
}

type JournalConfig struct {
	Driver          string        `toml:"driver"` // "", "postgres" or "sqlite"
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type SpectatorConfig struct {
	BindAddress string `toml:"bind_address"` // empty disables the feed
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func (c *Config) Validate() error {
	a := c.Arena
	switch {
	case a.Width <= 0 || a.Height <= 0:
		return fmt.Errorf("arena size %dx%d must be positive", a.Width, a.Height)
	case a.InitialPopulation < 0:
		return errors.New("initial_population must not be negative")
	case a.OpeningBattle < 0:
		return errors.New("opening_battle must not be negative")
	case a.Duration <= 0:
		return errors.New("duration must be positive")
	case a.RenderPeriod <= 0 || a.TickRate <= 0:
		return errors.New("render_period and tick_rate must be positive")
	}
	switch c.Journal.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown journal driver %q", c.Journal.Driver)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Arena: ArenaConfig{
			Width:             100,
			Height:            100,
			InitialPopulation: 50,
			Duration:          30 * time.Second,
			RenderPeriod:      time.Second,
			TickRate:          200 * time.Millisecond,
		},
		Data: DataConfig{
			KindTable: "data/yaml/kind_list.yaml",
		},
		Storage: StorageConfig{
			SavePath: "npcs.txt",
			EventLog: "events.log",
		},
		Journal: JournalConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
