// Package config loads the environment-based configuration for `poet
// serve`, grounded on louisbranch-fracturing.space's
// internal/platform/config/env.go (a thin wrapper around
// github.com/caarlos0/env/v11). One-shot `poet verify` invocations never
// use this package — they take every option from cobra flags, following
// the teacher's cmd/client split between a long-running process and a
// one-shot CLI invocation (SPEC_FULL.md AMBIENT STACK / Configuration).
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ServeConfig is the environment-derived configuration for `poet serve`.
type ServeConfig struct {
	Addr          string `env:"POET_ADDR" envDefault:":8080"`
	OutputLevel   string `env:"POET_OUTPUT_LEVEL" envDefault:"default"`
	LogCategories string `env:"POET_LOG_CATEGORIES" envDefault:""`
}

// Load reads a ServeConfig from the environment, falling back to the
// defaults above for anything unset.
func Load() (*ServeConfig, error) {
	cfg := &ServeConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
