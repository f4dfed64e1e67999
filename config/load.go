package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Load reads a config file, applies environment overrides, and validates.
// An empty path loads defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config as indented JSON
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// WriteDefault writes the default config to path, refusing to overwrite
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	return Save(path, Default())
}

// applyEnv overrides fields from PROCSYNTH_* variables. Unparseable values
// are ignored, keeping the file or default value.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PROCSYNTH_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("PROCSYNTH_TEMPO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.TempoBPM = f
		}
	}
	if v := os.Getenv("PROCSYNTH_DURATION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DurationSeconds = f
		}
	}
	if v := os.Getenv("PROCSYNTH_KEY_ROOT"); v != "" {
		cfg.Key.Root = v
	}
	if v := os.Getenv("PROCSYNTH_KEY_MODE"); v != "" {
		cfg.Key.Mode = v
	}
	if v := os.Getenv("PROCSYNTH_PPQ"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PPQ = n
		}
	}
	if v := os.Getenv("PROCSYNTH_SWING"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Swing = f
		}
	}
	if v := os.Getenv("PROCSYNTH_OUTPUT_DIR"); v != "" {
		cfg.Output.Directory = v
	}
	if v := os.Getenv("PROCSYNTH_HUMANIZE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Humanize.Enabled = b
		}
	}
}
