// Package config holds the engine's tunable parameters. The reinforcement
// and growth constants were chosen empirically; none of the numeric defaults
// are load-bearing, and deployments override them per network.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the full engine configuration.
type Config struct {
	Logging     Logging     `yaml:"logging"`
	Pathfinding Pathfinding `yaml:"pathfinding"`
	Flow        Flow        `yaml:"flow"`
	Healing     Healing     `yaml:"healing"`
	Mirror      Mirror      `yaml:"mirror"`
}

// Logging configures the structured logger.
type Logging struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Pathfinding tunes hyphal growth path discovery.
type Pathfinding struct {
	// PenaltyMultiplier inflates the cost of already accepted routes within
	// one discovery invocation, pushing later searches toward diversity.
	PenaltyMultiplier float64 `yaml:"penalty_multiplier" validate:"gt=1"`
	// MaxPaths is the default redundancy sought per discovery.
	MaxPaths int `yaml:"max_paths" validate:"gte=1"`
}

// Flow tunes nutrient distribution.
type Flow struct {
	RoundLimit        int     `yaml:"round_limit" validate:"gte=1"`
	ReinforcementRate float64 `yaml:"reinforcement_rate" validate:"gt=0,lte=1"`
	DecayRate         float64 `yaml:"decay_rate" validate:"gt=0,lte=1"`
	// ReinforcementFloor bounds how far use may shrink effective cost.
	ReinforcementFloor float64 `yaml:"reinforcement_floor" validate:"gt=0,lt=1"`
}

// Healing tunes the damage response.
type Healing struct {
	// GrowthBudget caps new edges per repair invocation.
	GrowthBudget int `yaml:"growth_budget" validate:"gte=0"`
	// GrowthCostPenalty scales a grown edge's base cost above the
	// pre-damage shortest distance between its endpoints.
	GrowthCostPenalty float64 `yaml:"growth_cost_penalty" validate:"gte=1"`
	// GrowthCapacity is the transport capacity of grown edges.
	GrowthCapacity float64 `yaml:"growth_capacity" validate:"gte=0"`
}

// Mirror selects the external store receiving mutation events.
type Mirror struct {
	// Driver is empty (no mirroring), "memory", "postgres", or "nng".
	Driver      string `yaml:"driver" validate:"omitempty,oneof=memory postgres nng"`
	DatabaseURL string `yaml:"database_url"`
	ListenAddr  string `yaml:"listen_addr"`
}

// Default returns the engine's default configuration.
func Default() Config {
	return Config{
		Logging: Logging{Level: "info"},
		Pathfinding: Pathfinding{
			PenaltyMultiplier: 2.0,
			MaxPaths:          3,
		},
		Flow: Flow{
			RoundLimit:         16,
			ReinforcementRate:  0.1,
			DecayRate:          0.05,
			ReinforcementFloor: 0.25,
		},
		Healing: Healing{
			GrowthBudget:      4,
			GrowthCostPenalty: 1.5,
			GrowthCapacity:    5.0,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Mirror.Driver == "postgres" && c.Mirror.DatabaseURL == "" {
		return fmt.Errorf("invalid config: postgres mirror requires database_url")
	}
	if c.Mirror.Driver == "nng" && c.Mirror.ListenAddr == "" {
		return fmt.Errorf("invalid config: nng mirror requires listen_addr")
	}
	return nil
}
