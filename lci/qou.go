package lci

import (
	"fmt"
	"math"
)

// Scorer turns observations into QOU, all-in cost and LCI values.
// It holds an immutable ScoringConfig; build one per sensitivity setting.
type Scorer struct {
	cfg ScoringConfig
}

// NewScorer validates cfg and returns a Scorer.
func NewScorer(cfg ScoringConfig) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new scorer: %w", err)
	}
	return &Scorer{cfg: cfg}, nil
}

// Config returns the scorer's configuration.
func (s *Scorer) Config() ScoringConfig {
	return s.cfg
}

// LatencyPenalty returns (target / max(p95, target))^eta.
// The result is 1 at or below target and decreases as p95 grows past it.
func LatencyPenalty(targetMs, p95Ms, eta float64) float64 {
	return math.Pow(targetMs/math.Max(p95Ms, targetMs), eta)
}

// LatencyPenalty applies the family's latency target and the configured ηL.
func (s *Scorer) LatencyPenalty(family string, p95Ms float64) float64 {
	return LatencyPenalty(s.cfg.Targets.Target(family), p95Ms, s.cfg.Exponents.Latency)
}

// QOU computes tokens_per_sec * acc^ηA * penalty * q^ηQ * s^ηS.
// It is undefined when accuracy, p95 latency, throughput, availability or
// success rate is missing.
func (s *Scorer) QOU(obs Observation) Maybe {
	if !allValid(obs.Accuracy, obs.P95Ms, obs.TokensPerSec, obs.Availability, obs.SuccessRate) {
		return None()
	}
	acc, _ := obs.Accuracy.Get()
	p95, _ := obs.P95Ms.Get()
	tps, _ := obs.TokensPerSec.Get()
	q, _ := obs.Availability.Get()
	succ, _ := obs.SuccessRate.Get()

	exp := s.cfg.Exponents
	return Some(tps *
		math.Pow(acc, exp.Accuracy) *
		s.LatencyPenalty(obs.Family, p95) *
		math.Pow(q, exp.Availability) *
		math.Pow(succ, exp.Success))
}
