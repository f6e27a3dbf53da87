package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// gsquery runtime settings.
type queryConfig struct {
	Capacity    int
	Keys        []string
	MetricsAddr string
	LogLevel    string
}

// config.toml key mapping.
type fileConfig struct {
	Capacity    int      `toml:"capacity"`
	Keys        []string `toml:"keys"`
	MetricsAddr string   `toml:"metrics_addr"`
	LogLevel    string   `toml:"log_level"`
}

func defaultQueryConfig() queryConfig {
	return queryConfig{
		Capacity: 128,
		Keys:     []string{"challenge"},
	}
}

// loadQueryConfig overlays the keys present in path onto the defaults.
func loadQueryConfig(path string) (queryConfig, error) {
	cfg := defaultQueryConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return queryConfig{}, fmt.Errorf("load gsquery config: %w", err)
	}

	if meta.IsDefined("capacity") {
		cfg.Capacity = raw.Capacity
	}
	if meta.IsDefined("keys") {
		cfg.Keys = raw.Keys
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if err := validateQueryConfig(cfg); err != nil {
		return queryConfig{}, err
	}
	return cfg, nil
}

func validateQueryConfig(cfg queryConfig) error {
	if cfg.Capacity < 0 {
		return fmt.Errorf("capacity must be >= 0, got %d", cfg.Capacity)
	}
	if len(cfg.Keys) == 0 {
		return fmt.Errorf("at least one key is required")
	}
	for i, name := range cfg.Keys {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("key[%d] is empty", i)
		}
		if strings.ContainsRune(name, '\\') {
			return fmt.Errorf("key[%d] %q must be a bare name without backslashes", i, name)
		}
	}
	return nil
}
