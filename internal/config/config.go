// Package config loads the server's YAML configuration file on top of the
// built-in defaults. CLI overrides are applied by cmd/tichu-server.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every server-tunable value: listen address, target score,
// exchange timeout, and an optional RNG seed for deterministic dealing.
type Config struct {
	Addr            string        `yaml:"addr"`
	TargetScore     int           `yaml:"targetScore"`
	ExchangeTimeout time.Duration `yaml:"exchangeTimeout"`
	Seed            int64         `yaml:"seed"`
}

// Default returns the out-of-the-box settings: target score 1000, a
// 30-second exchange timeout, and an unset seed (OS randomness). The
// exchange timeout is set only through the YAML file (exchangeTimeout);
// cmd/tichu-server has no flag for it.
func Default() Config {
	return Config{
		Addr:            ":8080",
		TargetScore:     1000,
		ExchangeTimeout: 30 * time.Second,
	}
}

// Load reads a YAML file at path into a Config seeded with Default().
// A missing file is not an error: the defaults apply as-is, matching the
// "no config file" deployment mode.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
