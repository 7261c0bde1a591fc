// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	View ViewConfig `toml:"view"`
	Load LoadConfig `toml:"load"`
}

// ViewConfig maps view defaults. Nil fields fall back to built-in defaults.
type ViewConfig struct {
	Metric *string `toml:"metric"`
	Order  *string `toml:"order"`
	Mode   *string `toml:"mode"`
	TopN   *int    `toml:"top-n"`
	From   *int    `toml:"from"`
	To     *int    `toml:"to"`
	OutDir *string `toml:"out-dir"`
}

// LoadConfig maps validation settings.
type LoadConfig struct {
	StrictCEFR *bool `toml:"strict-cefr"`
}

// Load reads a TOML config from the given path. Missing file is not an error.
func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
