// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/prismchat/prism/internal/model"
	"github.com/prismchat/prism/internal/util"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config is the complete prism configuration.
type Config struct {
	// API configuration
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`

	// DefaultModel is the generation model used for new turns.
	DefaultModel string `toml:"default_model"`

	// UserID keys all persisted state. "guest" (or Guest=true) disables
	// persistence entirely.
	UserID string `toml:"user_id"`
	Guest  bool   `toml:"guest"`

	// Tier is the subscription tier: Free, Pro, or Ultra.
	Tier string `toml:"tier"`

	// UI preferences
	AccentColor       string   `toml:"accent_color"`
	SystemInstruction string   `toml:"system_instruction"`
	CustomStarters    []string `toml:"custom_starters"`

	// DataDir overrides the default ~/.prism data directory.
	DataDir string `toml:"data_dir"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		BaseURL:      "",
		DefaultModel: model.DefaultModelID,
		UserID:       "local",
		Tier:         string(model.TierFree),
		AccentColor:  "blue",
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the prism config directory (~/.prism), creating it if
// needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".prism")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return dir, nil
}

// Path returns the config file path (~/.prism/config.toml).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DatabasePath returns the SQLite database path for this config.
func (c *Config) DatabasePath() (string, error) {
	if c.DataDir != "" {
		return filepath.Join(c.DataDir, "prism.db"), nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prism.db"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file at path, falling back to defaults for a
// missing file, then applies environment overrides and validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if key := os.Getenv("PRISM_API_KEY"); key != "" {
		c.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" && c.APIKey == "" {
		c.APIKey = key
	}
	if os.Getenv("PRISM_GUEST") == "1" {
		c.Guest = true
	}
}

// normalize clamps invalid values back to defaults.
func (c *Config) normalize() {
	if c.DefaultModel == "" {
		c.DefaultModel = model.DefaultModelID
	}
	if c.UserID == "" {
		c.UserID = "local"
	}
	if c.Guest {
		c.UserID = model.GuestUserID
	}
	switch model.Tier(c.Tier) {
	case model.TierFree, model.TierPro, model.TierUltra:
	default:
		c.Tier = string(model.TierFree)
	}
	if c.AccentColor == "" {
		c.AccentColor = "blue"
	}
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the config to path atomically.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// =============================================================================
// SETTINGS BRIDGE
// =============================================================================

// ToSettings builds initial user settings from the config. Stored
// settings, when present, take precedence over these.
func (c *Config) ToSettings() *model.UserSettings {
	settings := model.DefaultSettings()
	settings.Tier = model.Tier(c.Tier)
	settings.CurrentModel = c.DefaultModel
	settings.AccentColor = c.AccentColor
	settings.SystemInstruction = c.SystemInstruction
	settings.CustomStarters = append([]string(nil), c.CustomStarters...)
	return settings
}
