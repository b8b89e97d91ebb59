// Package config reads and writes tac.toml, the project file holding code
// generation settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the name looked up by Find.
const FileName = "tac.toml"

// Config is the content of tac.toml.
type Config struct {
	// Strategy is "fall" or "jump".
	Strategy string `toml:"strategy"`
	Names    Names  `toml:"names"`
	Run      Run    `toml:"run"`
}

// Names sets the prefixes of generated temporaries and labels.
type Names struct {
	TempPrefix  string `toml:"temp_prefix"`
	LabelPrefix string `toml:"label_prefix"`
}

// Run configures the listing interpreter.
type Run struct {
	MaxSteps int `toml:"max_steps"`
}

// Default returns the settings used when no tac.toml exists.
func Default() *Config {
	return &Config{
		Strategy: "fall",
		Names:    Names{TempPrefix: "_t", LabelPrefix: "_L"},
		Run:      Run{MaxSteps: 100000},
	}
}

// Load reads path. Keys missing from the file keep their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("failed to parse %s: %s", path, strict.String())
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find looks for tac.toml in dir and its parents and returns its path, or ""
// if there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Resolve loads the nearest tac.toml above dir, or returns Default if there
// is none.
func Resolve(dir string) (*Config, string, error) {
	p, err := Find(dir)
	if err != nil {
		return nil, "", err
	}
	if p == "" {
		return Default(), "", nil
	}
	cfg, err := Load(p)
	return cfg, p, err
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Init writes the default settings to tac.toml in dir and returns its path.
// An existing file is only replaced when force is set.
func Init(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists", path)
		}
	}
	if err := Save(path, Default()); err != nil {
		return "", err
	}
	return path, nil
}

// Validate checks values that the decoder cannot.
func (c *Config) Validate() error {
	switch c.Strategy {
	case "fall", "jump":
	default:
		return fmt.Errorf("strategy must be \"fall\" or \"jump\", got %q", c.Strategy)
	}
	if c.Names.TempPrefix == "" || c.Names.LabelPrefix == "" {
		return fmt.Errorf("names: prefixes must not be empty")
	}
	if c.Names.TempPrefix == c.Names.LabelPrefix {
		return fmt.Errorf("names: temp_prefix and label_prefix must differ")
	}
	if c.Run.MaxSteps <= 0 {
		return fmt.Errorf("run: max_steps must be positive, got %d", c.Run.MaxSteps)
	}
	return nil
}
