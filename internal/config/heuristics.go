package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docoutline/internal/layout"
)

// DefaultHeuristicsPath is $XDG_CONFIG_HOME/docoutline/heuristics.toml.
func DefaultHeuristicsPath() string {
	return filepath.Join(xdg.ConfigHome, "docoutline", "heuristics.toml")
}

// LoadHeuristics reads engine thresholds from a TOML or YAML file, chosen
// by extension. Keys absent from the file keep their defaults. An empty
// path reads DefaultHeuristicsPath, which may be absent; a named file must
// exist.
func LoadHeuristics(path string) (layout.Config, error) {
	cfg := layout.DefaultConfig()
	if path == "" {
		path = DefaultHeuristicsPath()
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
	} else if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("heuristics file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read heuristics: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode YAML heuristics: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode TOML heuristics: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("heuristics %s: %w", path, err)
	}
	return cfg, nil
}
