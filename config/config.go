// Package config loads the application configuration from a YAML or JSON
// file, with TEAMBALANCE_ environment variables taking precedence.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/teambalance/core/balance"
	"github.com/kilianp07/teambalance/core/metrics"
	"github.com/kilianp07/teambalance/infra/mqtt"
)

// EnvPrefix marks environment overrides. Nested keys are separated by a
// double underscore: TEAMBALANCE_BALANCE__TIME_LIMIT_MS.
const EnvPrefix = "TEAMBALANCE_"

type Config struct {
	Log     LogConfig      `json:"log"`
	Balance balance.Config `json:"balance"`
	Metrics metrics.Config `json:"metrics"`
	History HistoryConfig  `json:"history"`
	MQTT    mqtt.Config    `json:"mqtt"`
	Sentry  SentryConfig   `json:"sentry"`
}

// LogConfig selects the minimum log level.
type LogConfig struct {
	Level string `json:"level"`
}

// Load reads path and applies environment overrides. An empty path yields
// the defaults plus overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Balance.SetDefaults()
	c.History.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Balance.Validate(); err != nil {
		return fmt.Errorf("balance: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return err
	}
	if c.MQTT.UseTLS && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt: broker is required when use_tls is set")
	}
	return nil
}
