// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tradewinds/config.yaml",
	"/etc/tradewinds/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "TRADEWINDS_CONFIG"

// envPrefix is stripped from environment variables before mapping to koanf
// paths: TRADEWINDS_MATCHING_TOP_N -> matching.top_n.
const envPrefix = "TRADEWINDS_"

// Load builds the configuration from layered sources (highest priority wins):
//
//  1. Environment variables with the TRADEWINDS_ prefix
//  2. YAML config file (TRADEWINDS_CONFIG or the default search paths)
//  3. Built-in defaults
//
// The returned config has passed Validate.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envTransform maps TRADEWINDS_MATCHING_TOP_N to matching.top_n. Only the
// first underscore separates the section; the rest of the key keeps its
// underscores, matching the koanf struct tags.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// findConfigFile returns the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
