package persist

import "github.com/l1jgo/arena/internal/config"

func journalCfg(driver string) config.JournalConfig {
	return config.JournalConfig{Driver: driver}
}
