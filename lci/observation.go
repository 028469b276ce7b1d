package lci

import (
	"fmt"
	"time"
)

// Observation is one measured data point for a (date, family, provider, model, region) tuple.
// Numeric fields are optional: a missing measurement is an undefined Maybe, never zero.
type Observation struct {
	Date     time.Time // measurement period, normalized to a UTC day by Day()
	Family   string    // task family, e.g. "QA", "Code", "Summarization"
	Provider string
	Model    string
	Region   string

	Accuracy         Maybe // task accuracy in [0, 1]
	P50Ms            Maybe // median latency (ms), > 0; carried through, not scored
	P95Ms            Maybe // tail latency (ms), > 0
	Availability     Maybe // q, in (0, 1]
	SuccessRate      Maybe // s, in (0, 1]
	TokensPerSec     Maybe // throughput, >= 0
	PricePerTokenUSD Maybe // unit price, > 0
	OpsOverheadPct   Maybe // operational overhead as a fraction, >= 0; defaulted when undefined
}

// Validate checks the ranges of every defined field.
// Undefined fields are not errors here; they surface as undefined derived values.
func (o Observation) Validate() error {
	if o.Date.IsZero() {
		return fmt.Errorf("observation %s/%s: date is required", o.Family, o.Model)
	}
	if o.Family == "" {
		return fmt.Errorf("observation %s: family is required", o.Model)
	}
	checks := []struct {
		name  string
		value Maybe
		ok    func(float64) bool
		want  string
	}{
		{"accuracy", o.Accuracy, func(v float64) bool { return v >= 0 && v <= 1 }, "in [0, 1]"},
		{"p50_ms", o.P50Ms, func(v float64) bool { return v > 0 }, "> 0"},
		{"p95_ms", o.P95Ms, func(v float64) bool { return v > 0 }, "> 0"},
		{"q", o.Availability, func(v float64) bool { return v > 0 && v <= 1 }, "in (0, 1]"},
		{"s", o.SuccessRate, func(v float64) bool { return v > 0 && v <= 1 }, "in (0, 1]"},
		{"tokens_per_sec", o.TokensPerSec, func(v float64) bool { return v >= 0 }, ">= 0"},
		{"price_per_token_usd", o.PricePerTokenUSD, func(v float64) bool { return v > 0 }, "> 0"},
		{"ops_pct", o.OpsOverheadPct, func(v float64) bool { return v >= 0 }, ">= 0"},
	}
	for _, c := range checks {
		v, ok := c.value.Get()
		if !ok {
			continue
		}
		if !c.ok(v) {
			return fmt.Errorf("observation %s/%s on %s: %s must be %s, got %g",
				o.Family, o.Model, o.Date.Format(time.DateOnly), c.name, c.want, v)
		}
	}
	return nil
}

// Day normalizes t to midnight UTC of its calendar day. Periods are compared at day granularity.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
