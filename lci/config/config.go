// Package config loads scoring and queue parameters from YAML.
package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/lci-index/lci"
	"github.com/inference-sim/lci-index/lci/latency"
)

// Config represents the full scoring YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Exponents             lci.Exponents       `yaml:"exponents"`
	LatencyTargets        TargetsConfig       `yaml:"latency_targets"`
	DefaultOpsOverheadPct float64             `yaml:"default_ops_overhead_pct"`
	Queue                 latency.QueueConfig `yaml:"queue"`
	Store                 StoreConfig         `yaml:"store"`
}

// TargetsConfig holds per-family p95 latency targets in ms.
type TargetsConfig struct {
	Default  float64            `yaml:"default"`
	Families map[string]float64 `yaml:"families"`
}

// StoreConfig controls the run history database. An empty DBPath disables it.
type StoreConfig struct {
	DBPath string `yaml:"db_path"`
}

// Default returns the published scoring defaults and the default queue configuration.
func Default() *Config {
	targets := lci.DefaultLatencyTargets()
	families := make(map[string]float64)
	for _, f := range targets.Families() {
		families[f] = targets.Target(f)
	}
	return &Config{
		Exponents: lci.DefaultExponents(),
		LatencyTargets: TargetsConfig{
			Default:  targets.Default(),
			Families: families,
		},
		DefaultOpsOverheadPct: lci.DefaultOpsOverheadPct,
		Queue:                 latency.DefaultQueueConfig(),
	}
}

// Load reads a YAML config file, expands environment variables and overlays it
// on Default. Unrecognized keys (typos) are rejected. Family targets merge with
// the defaults rather than replacing them.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes onto Default and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Scoring converts the YAML sections into an immutable lci.ScoringConfig.
func (c *Config) Scoring() lci.ScoringConfig {
	return lci.ScoringConfig{
		Exponents:             c.Exponents,
		Targets:               lci.NewLatencyTargets(c.LatencyTargets.Default, c.LatencyTargets.Families),
		DefaultOpsOverheadPct: c.DefaultOpsOverheadPct,
	}
}

// Validate checks both the scoring and the queue sections.
func (c *Config) Validate() error {
	if err := c.Scoring().Validate(); err != nil {
		return err
	}
	return c.Queue.Validate()
}

// Digest returns a stable hex SHA-256 of the effective configuration, recorded
// with stored runs so results can be matched to the parameters that produced them.
func (c *Config) Digest() string {
	// yaml.v3 marshals map keys in sorted order, so the encoding is stable.
	data, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
