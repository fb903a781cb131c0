package config

import (
	"fmt"

	"github.com/kilianp07/teambalance/core/factory"
	"github.com/kilianp07/teambalance/core/history"
)

// HistoryDisabled turns game history off.
const HistoryDisabled = "none"

// HistoryConfig defines settings for game history storage and rotation.
type HistoryConfig struct {
	// Backend selects the store type: "jsonl", "rotating", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *HistoryConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "games_history.db"
		default:
			c.Path = "games_history.jsonl"
		}
	}
	if c.Backend == "rotating" && c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c HistoryConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	known := false
	for _, b := range history.Backends() {
		if b == c.Backend {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown history backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("history path is required")
	}
	return nil
}

// Enabled reports whether lineups should be recorded.
func (c HistoryConfig) Enabled() bool { return c.Backend != HistoryDisabled }

// Module converts the settings into a store definition for history.New.
func (c HistoryConfig) Module() factory.ModuleConfig {
	return factory.ModuleConfig{
		Type: c.Backend,
		Conf: map[string]any{
			"path":         c.Path,
			"max_size_mb":  c.MaxSizeMB,
			"max_backups":  c.MaxBackups,
			"max_age_days": c.MaxAgeDays,
		},
	}
}
