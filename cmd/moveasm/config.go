package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const defaultConfigFile = "moveasm.toml"

// Config is the optional moveasm.toml file.
type Config struct {
	Modules ModulesConfig `toml:"modules"`
	Output  OutputConfig  `toml:"output"`
	Decode  DecodeConfig  `toml:"decode"`
}

// DecodeConfig configures binary decoding.
type DecodeConfig struct {
	AddressLength int `toml:"address_length"`
}

// ModulesConfig lists module files linked when -m is not given.
type ModulesConfig struct {
	Paths []string `toml:"paths"`
}

// OutputConfig configures how results are written.
type OutputConfig struct {
	Format string `toml:"format"` // text or cbor
	Color  string `toml:"color"`  // auto, always or never
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: "text", Color: "auto"},
	}
}

// LoadConfig reads the config file at path. With an empty path it looks for
// moveasm.toml in the working directory and falls back to DefaultConfig when
// there is none. Relative module paths are taken relative to the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, p := range cfg.Modules.Paths {
		if !filepath.IsAbs(p) {
			cfg.Modules.Paths[i] = filepath.Join(dir, p)
		}
	}

	// Defaults
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = "auto"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Output.Format {
	case "text", "cbor":
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unknown color mode %q", c.Output.Color)
	}
	if c.Decode.AddressLength < 0 {
		return fmt.Errorf("negative address length %d", c.Decode.AddressLength)
	}
	return nil
}
