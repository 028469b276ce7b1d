package lci

import (
	"fmt"
	"math"
	"sort"
)

// Default scoring parameters. These reproduce the published functional form and
// are frozen for reproducibility; tune them through ScoringConfig, not here.
const (
	DefaultAccuracyExponent     = 2.0
	DefaultLatencyExponent      = 0.5
	DefaultAvailabilityExponent = 0.2
	DefaultSuccessExponent      = 0.2

	DefaultLatencyTargetMs = 1000.0
	DefaultOpsOverheadPct  = 0.10
)

// Exponents weight the QOU factors.
type Exponents struct {
	Accuracy     float64 `yaml:"accuracy"`     // ηA
	Latency      float64 `yaml:"latency"`      // ηL, applied inside the latency penalty
	Availability float64 `yaml:"availability"` // ηQ
	Success      float64 `yaml:"success"`      // ηS
}

// DefaultExponents returns ηA=2.0, ηL=0.5, ηQ=0.2, ηS=0.2.
func DefaultExponents() Exponents {
	return Exponents{
		Accuracy:     DefaultAccuracyExponent,
		Latency:      DefaultLatencyExponent,
		Availability: DefaultAvailabilityExponent,
		Success:      DefaultSuccessExponent,
	}
}

// LatencyTargets maps a task family to its acceptable p95 latency in ms.
// It is immutable after construction; unknown families use the default target.
type LatencyTargets struct {
	def      float64
	families map[string]float64
}

// defaultFamilyTargets are the baseline targets for the known task families.
var defaultFamilyTargets = map[string]float64{
	"QA":            800,
	"Code":          1200,
	"Summarization": 1200,
}

// NewLatencyTargets copies families so later changes to the caller's map are not observed.
func NewLatencyTargets(def float64, families map[string]float64) LatencyTargets {
	copied := make(map[string]float64, len(families))
	for k, v := range families {
		copied[k] = v
	}
	return LatencyTargets{def: def, families: copied}
}

// DefaultLatencyTargets returns QA=800, Code=1200, Summarization=1200 and a 1000 ms default.
func DefaultLatencyTargets() LatencyTargets {
	return NewLatencyTargets(DefaultLatencyTargetMs, defaultFamilyTargets)
}

// Target returns the p95 target for family, or the default target.
func (t LatencyTargets) Target(family string) float64 {
	if v, ok := t.families[family]; ok {
		return v
	}
	return t.def
}

// Default returns the target used for unknown families.
func (t LatencyTargets) Default() float64 {
	return t.def
}

// Families returns the configured family names in sorted order.
func (t LatencyTargets) Families() []string {
	names := make([]string, 0, len(t.families))
	for k := range t.families {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ScoringConfig groups every tunable input of the QOU and cost formulas.
type ScoringConfig struct {
	Exponents             Exponents
	Targets               LatencyTargets
	DefaultOpsOverheadPct float64 // applied when an observation has no ops_pct
}

// DefaultScoringConfig returns the published defaults.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Exponents:             DefaultExponents(),
		Targets:               DefaultLatencyTargets(),
		DefaultOpsOverheadPct: DefaultOpsOverheadPct,
	}
}

// Validate rejects negative or non-finite exponents, non-positive targets and a
// negative default overhead.
func (c ScoringConfig) Validate() error {
	exps := []struct {
		name string
		v    float64
	}{
		{"accuracy", c.Exponents.Accuracy},
		{"latency", c.Exponents.Latency},
		{"availability", c.Exponents.Availability},
		{"success", c.Exponents.Success},
	}
	for _, e := range exps {
		if err := validateFiniteNonNegative("exponents."+e.name, e.v); err != nil {
			return err
		}
	}
	if err := validateFinitePositive("latency_targets.default", c.Targets.def); err != nil {
		return err
	}
	for _, name := range c.Targets.Families() {
		if err := validateFinitePositive("latency_targets.families."+name, c.Targets.families[name]); err != nil {
			return err
		}
	}
	return validateFiniteNonNegative("default_ops_overhead_pct", c.DefaultOpsOverheadPct)
}

func validateFinitePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("scoring config: %s must be a finite number, got %f", name, v)
	}
	if v <= 0 {
		return fmt.Errorf("scoring config: %s must be positive, got %f", name, v)
	}
	return nil
}

func validateFiniteNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("scoring config: %s must be a finite number, got %f", name, v)
	}
	if v < 0 {
		return fmt.Errorf("scoring config: %s must be non-negative, got %f", name, v)
	}
	return nil
}
