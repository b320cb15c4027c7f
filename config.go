// Copyright 2025 Matthew Gall <me@matthewgall.dev>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// Input data
	Input           string `yaml:"input"`
	TimestampColumn string `yaml:"timestamp_column"`
	TimestampFormat string `yaml:"timestamp_format"`
	Timezone        string `yaml:"timezone"`
	Frequency       string `yaml:"frequency"`

	// Column roles
	Columns ColumnMap `yaml:"columns"`

	// Checks
	Bounds               []BoundRule `yaml:"bounds"`
	DeltaChecks          []DeltaRule `yaml:"delta_checks"`
	MinDailyCompleteness float64     `yaml:"min_daily_completeness"`

	// Storage
	StoragePath string `yaml:"storage_path"`

	// Logging
	LogFormat string `yaml:"log_format"`
	Debug     bool   `yaml:"debug"`
}

// ColumnMap names the columns that carry each production quantity
type ColumnMap struct {
	Ratio      string `yaml:"ratio"`
	Energy     string `yaml:"energy"`
	Irradiance string `yaml:"irradiance"`
	Capacity   string `yaml:"capacity"`
	Site       string `yaml:"site"`
}

// BoundRule is a configured boundary filter
type BoundRule struct {
	Column string   `yaml:"column"`
	Min    float64  `yaml:"min"`
	Max    *float64 `yaml:"max"`
}

// DeltaRule is a configured delta check
type DeltaRule struct {
	Column        string   `yaml:"column"`
	WindowSeconds int      `yaml:"window_seconds"`
	Lower         *float64 `yaml:"lower"`
	Upper         *float64 `yaml:"upper"`
	Direction     string   `yaml:"direction"`
	MinFailures   int      `yaml:"min_failures"`
}

// Check converts the rule into a DeltaCheck
func (r DeltaRule) Check() DeltaCheck {
	direction := Direction(strings.ToLower(r.Direction))
	if direction == "" {
		direction = DirectionBoth
	}
	return DeltaCheck{
		Column:      r.Column,
		Window:      time.Duration(r.WindowSeconds) * time.Second,
		Bound:       DeltaBound{Lower: r.Lower, Upper: r.Upper},
		Direction:   direction,
		MinFailures: r.MinFailures,
	}
}

// DefaultColumnMap returns the conventional production column names
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		Ratio:      DefaultRatioColumn,
		Energy:     DefaultEnergyColumn,
		Irradiance: DefaultIrradianceColumn,
		Capacity:   DefaultCapacityColumn,
		Site:       DefaultSiteColumn,
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Set defaults
	config := &Config{
		TimestampColumn:      DefaultTimestampColumn,
		Timezone:             "UTC",
		Columns:              DefaultColumnMap(),
		MinDailyCompleteness: DefaultMinDailyCompleteness,
		StoragePath:          getDefaultStoragePath(),
		LogFormat:            "text",
	}

	// If no path provided, return defaults with env var overrides
	if path == "" {
		config.applyEnvironmentVariables()
		return config, nil
	}

	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.fillColumnDefaults()

	// Apply environment variable overrides
	config.applyEnvironmentVariables()

	return config, nil
}

// getDefaultStoragePath returns the default storage path
func getDefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pvaudit"
	}
	return filepath.Join(home, ".config", "pvaudit")
}

// fillColumnDefaults restores column roles left blank by a partial columns block
func (c *Config) fillColumnDefaults() {
	defaults := DefaultColumnMap()
	if c.Columns.Ratio == "" {
		c.Columns.Ratio = defaults.Ratio
	}
	if c.Columns.Energy == "" {
		c.Columns.Energy = defaults.Energy
	}
	if c.Columns.Irradiance == "" {
		c.Columns.Irradiance = defaults.Irradiance
	}
	if c.Columns.Capacity == "" {
		c.Columns.Capacity = defaults.Capacity
	}
	if c.Columns.Site == "" {
		c.Columns.Site = defaults.Site
	}
	if c.TimestampColumn == "" {
		c.TimestampColumn = DefaultTimestampColumn
	}
}

// applyEnvironmentVariables overrides config with environment variables
func (c *Config) applyEnvironmentVariables() {
	if val := os.Getenv("PVAUDIT_INPUT"); val != "" {
		c.Input = val
	}
	if val := os.Getenv("PVAUDIT_FREQUENCY"); val != "" {
		c.Frequency = val
	}
	if val := os.Getenv("PVAUDIT_TIMEZONE"); val != "" {
		c.Timezone = val
	}
	if val := os.Getenv("PVAUDIT_STORAGE_PATH"); val != "" {
		c.StoragePath = val
	}
	if val := os.Getenv("PVAUDIT_LOG_FORMAT"); val != "" {
		c.LogFormat = val
	}
	if val := os.Getenv("PVAUDIT_DEBUG"); val == "true" || val == "1" {
		c.Debug = true
	}
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// CSVOptions returns the loader options implied by the configuration
func (c *Config) CSVOptions() (CSVOptions, error) {
	loc, err := c.Location()
	if err != nil {
		return CSVOptions{}, err
	}
	var labels []string
	if c.Columns.Site != "" {
		labels = append(labels, c.Columns.Site)
	}
	return CSVOptions{
		TimestampColumn: c.TimestampColumn,
		TimestampFormat: c.TimestampFormat,
		Location:        loc,
		LabelColumns:    labels,
	}, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	if c.Input == "" {
		errors = append(errors, "input is required")
	}

	if c.Frequency == "" {
		errors = append(errors, "frequency is required")
	} else if _, err := ParseFrequency(c.Frequency); err != nil {
		errors = append(errors, err.Error())
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("timezone %q is not a known location", c.Timezone))
	}

	for i, rule := range c.Bounds {
		if rule.Column == "" {
			errors = append(errors, fmt.Sprintf("bounds[%d]: column is required", i))
		}
		if rule.Max != nil && *rule.Max < rule.Min {
			errors = append(errors, fmt.Sprintf("bounds[%d]: max must not be below min", i))
		}
	}

	for i, rule := range c.DeltaChecks {
		if rule.Column == "" {
			errors = append(errors, fmt.Sprintf("delta_checks[%d]: column is required", i))
		}
		if err := rule.Check().Validate(); err != nil {
			errors = append(errors, fmt.Sprintf("delta_checks[%d]: %v", i, err))
		}
	}

	if c.MinDailyCompleteness < 0 || c.MinDailyCompleteness > 1 {
		errors = append(errors, "min_daily_completeness must be between 0 and 1")
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, "log_format must be text or json")
	}

	// Set default storage path if empty
	if c.StoragePath == "" {
		c.StoragePath = getDefaultStoragePath()
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
