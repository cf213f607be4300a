package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines runtime settings loaded from YAML. Command-line flags
// override the corresponding fields.
type Config struct {
	// Formats lists user-supplied strftime format specifications, tried
	// ahead of DefaultFormats in the given order.
	Formats []string `yaml:"formats"`
	// Jobs controls how many lines are rewritten in parallel.
	Jobs int `yaml:"jobs"`
	// Zone names the target time zone: "local", "utc", or an IANA name.
	Zone string `yaml:"zone"`
	// Input is a log file path or http(s) URL; empty means stdin.
	Input string `yaml:"input"`
}

// DefaultFormats is the fixed built-in catalog of timestamp format
// specifications. Order is match priority; user formats always come first.
var DefaultFormats = []string{
	"%+",                  // RFC 3339 with fractional seconds
	"%c",                  // ctime style, e.g. "Mon Jun  1 12:34:56 2020"
	"%Y-%m-%dT%H:%M:%SZ",  // ISO 8601 with zulu suffix
	"%Y-%m-%dT%H:%M:%S%z", // ISO 8601 with numeric offset
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{Jobs: 1, Zone: "local"}
}

// Load reads and normalizes config from a YAML file path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	// Keep defaults centralized so callers can rely on normalized values.
	if c.Jobs <= 0 {
		c.Jobs = 1
	}
	if c.Zone == "" {
		c.Zone = "local"
	}
	return c, nil
}
