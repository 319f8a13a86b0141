// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the ledger's startup parameters: the externally-driven
// clock's initial value and whether proof verification is enabled.
// Disabling it is a test-only escape hatch, the Go analogue of the
// original's dbg_no_proof constructor flag.
type Config struct {
	InitialTime    uint64 `yaml:"initial_time"`
	DisableProof   bool   `yaml:"disable_proof"`
	RegisterBudget int    `yaml:"register_budget"`
}

// DefaultConfig matches the original's hardcoded test defaults: an
// arbitrary non-zero starting time and proof verification enabled.
func DefaultConfig() Config {
	return Config{InitialTime: 5555, RegisterBudget: 10}
}

// LoadConfig reads a YAML ledger configuration from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ledger: reading config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("ledger: parsing config %s: %w", path, err)
	}
	return &cfg, nil
}
