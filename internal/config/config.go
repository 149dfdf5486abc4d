// Package config loads the optional YAML configuration file. Everything
// has a working default; the file exists mainly so the localized-text
// heuristics (grid header markers, system menu names) can be adjusted
// per target application without rebuilding.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"winauto-mcp/internal/engine"
)

// Config captures all tunable settings for the winauto MCP server.
// Durations are strings in Go notation, e.g. "5s" or "300ms".
type Config struct {
	// OpTimeout bounds every operation that can touch the target
	// process's UI thread.
	OpTimeout string `yaml:"op_timeout"`
	// SettleDelay is the wait for dropdowns and submenus to populate.
	SettleDelay string `yaml:"settle_delay"`
	// MenuSeparator splits menu paths, e.g. "File->Open".
	MenuSeparator string `yaml:"menu_separator"`
	// GridRowTypes are control types treated as data-grid rows.
	GridRowTypes []string `yaml:"grid_row_types"`
	// GridHeaderMarkers exclude grid rows whose name contains any of
	// these (case-insensitive). Localized per target application.
	GridHeaderMarkers []string `yaml:"grid_header_markers"`
	// SystemMenuNames are menu-bar names skipped when locating the
	// application menu bar. Localized per target application.
	SystemMenuNames []string `yaml:"system_menu_names"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OpTimeout:         "5s",
		SettleDelay:       "300ms",
		MenuSeparator:     "->",
		GridRowTypes:      []string{"Custom", "DataItem"},
		GridHeaderMarkers: []string{"トップ", "header"},
		SystemMenuNames:   []string{"システム", "System"},
	}
}

// Load reads the config file at path, layering it over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config %q: %w", path, err)
	}
	return cfg, nil
}

// EngineOptions converts the configuration into engine options.
func (c *Config) EngineOptions() (engine.Options, error) {
	timeout, err := time.ParseDuration(c.OpTimeout)
	if err != nil {
		return engine.Options{}, fmt.Errorf("invalid op_timeout %q: %w", c.OpTimeout, err)
	}
	settle, err := time.ParseDuration(c.SettleDelay)
	if err != nil {
		return engine.Options{}, fmt.Errorf("invalid settle_delay %q: %w", c.SettleDelay, err)
	}
	return engine.Options{
		Timeout:           timeout,
		SettleDelay:       settle,
		MenuSeparator:     c.MenuSeparator,
		GridRowTypes:      c.GridRowTypes,
		GridHeaderMarkers: c.GridHeaderMarkers,
		SystemMenuNames:   c.SystemMenuNames,
	}, nil
}
