package relay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joshp123/gobotvac/botvac"
)

// Identity mirrors robot_identity.json: the descriptor for the one
// robot this relay fronts. Read once at startup.
type Identity struct {
	Name   string   `json:"name"`
	Serial string   `json:"serial"`
	Secret string   `json:"secret"`
	Traits []string `json:"traits"`
}

// CleaningConfig mirrors robot_cleaning_configuration.json: the modes
// the PUT handler starts cleaning with.
type CleaningConfig struct {
	CleaningMode   string `json:"cleaning_mode"`
	NavigationMode string `json:"navigation_mode"`
}

// LoadIdentity parses and validates the identity file. Serial and
// secret format checks happen in botvac.NewRobot; here we only require
// presence.
func LoadIdentity(path string) (Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Identity{}, fmt.Errorf("read identity: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return Identity{}, fmt.Errorf("parse identity: %w", err)
	}
	if identity.Serial == "" {
		return Identity{}, fmt.Errorf("identity missing serial")
	}
	if identity.Secret == "" {
		return Identity{}, fmt.Errorf("identity missing secret")
	}
	return identity, nil
}

// LoadCleaningConfig parses the cleaning configuration, applies
// defaults, and validates the mode names against the command tables.
func LoadCleaningConfig(path string) (CleaningConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CleaningConfig{}, fmt.Errorf("read cleaning configuration: %w", err)
	}

	var cfg CleaningConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return CleaningConfig{}, fmt.Errorf("parse cleaning configuration: %w", err)
	}

	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return CleaningConfig{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *CleaningConfig) {
	if cfg.CleaningMode == "" {
		cfg.CleaningMode = "eco"
	}
	if cfg.NavigationMode == "" {
		cfg.NavigationMode = "normal"
	}
}

// Validate rejects mode names the command tables do not know, so a bad
// configuration fails at startup rather than on the first PUT.
func Validate(cfg CleaningConfig) error {
	if _, ok := botvac.CleaningModeCode(cfg.CleaningMode); !ok {
		return fmt.Errorf("unknown cleaning_mode %q", cfg.CleaningMode)
	}
	if _, ok := botvac.NavigationModeCode(cfg.NavigationMode); !ok {
		return fmt.Errorf("unknown navigation_mode %q", cfg.NavigationMode)
	}
	return nil
}
