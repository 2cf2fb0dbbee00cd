package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config must validate: %v", err)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
pathfinding:
  penalty_multiplier: 3.5
healing:
  growth_budget: 1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Pathfinding.PenaltyMultiplier != 3.5 {
		t.Errorf("Expected penalty 3.5, got %f", cfg.Pathfinding.PenaltyMultiplier)
	}
	if cfg.Healing.GrowthBudget != 1 {
		t.Errorf("Expected growth budget 1, got %d", cfg.Healing.GrowthBudget)
	}
	// Untouched fields keep defaults
	if cfg.Flow.RoundLimit != 16 {
		t.Errorf("Expected default round limit, got %d", cfg.Flow.RoundLimit)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
pathfinding:
  penalty_multiplier: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Expected validation error for penalty below 1")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestValidate_MirrorDriverRequirements(t *testing.T) {
	cfg := Default()
	cfg.Mirror.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for postgres driver without database_url")
	}

	cfg.Mirror.DatabaseURL = "postgres://localhost/mycelium"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid postgres mirror config, got %v", err)
	}

	cfg = Default()
	cfg.Mirror.Driver = "nng"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for nng driver without listen_addr")
	}
}
