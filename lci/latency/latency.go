// Package latency provides the queueing approximation that maps server
// utilization and batching configuration to an expected p95 latency, and the
// LCI sensitivity curve built on top of it.
//
// The model is a convex placeholder for GI/G/k processor sharing with
// batching. It is monotone increasing in utilization, batch size, batch
// timeout and both squared coefficients of variation; it is not an exact
// queueing solution.
package latency

import (
	"fmt"
	"math"
)

// Frozen constants of the approximation.
const (
	MinUtilization = 1e-6
	MaxUtilization = 0.999

	baseLatencyMs      = 100.0
	convexityExponent  = 1.2
	batchSizeSlope     = 0.02
	batchTimeoutSlope  = 0.001
	serviceSCVWeight   = 0.5
	comfortThresholdMs = 300.0
	lciPenaltySlope    = 0.001
)

// QueueConfig describes the serving system.
type QueueConfig struct {
	Servers        int     `yaml:"servers"`          // k
	SCVArrival     float64 `yaml:"scv_arrival"`      // squared coefficient of variation of inter-arrivals
	SCVService     float64 `yaml:"scv_service"`      // squared coefficient of variation of service times
	BatchSize      int     `yaml:"batch_size"`       // maximum batch size B
	BatchTimeoutMs float64 `yaml:"batch_timeout_ms"` // batching timeout τ_b
	ServiceRateTPS float64 `yaml:"service_rate_tps"` // per-server service rate
}

// DefaultQueueConfig returns a single-server, Poisson-like configuration with modest batching.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		Servers:        1,
		SCVArrival:     1.0,
		SCVService:     1.0,
		BatchSize:      8,
		BatchTimeoutMs: 10,
		ServiceRateTPS: 100,
	}
}

// Validate returns an error if any field is out of range or non-finite.
func (c QueueConfig) Validate() error {
	if c.Servers < 1 {
		return fmt.Errorf("queue config: servers must be >= 1, got %d", c.Servers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("queue config: batch_size must be >= 1, got %d", c.BatchSize)
	}
	nonNeg := []struct {
		name string
		v    float64
	}{
		{"scv_arrival", c.SCVArrival},
		{"scv_service", c.SCVService},
		{"batch_timeout_ms", c.BatchTimeoutMs},
	}
	for _, f := range nonNeg {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("queue config: %s must be a finite number, got %f", f.name, f.v)
		}
		if f.v < 0 {
			return fmt.Errorf("queue config: %s must be non-negative, got %f", f.name, f.v)
		}
	}
	if math.IsNaN(c.ServiceRateTPS) || math.IsInf(c.ServiceRateTPS, 0) || c.ServiceRateTPS <= 0 {
		return fmt.Errorf("queue config: service_rate_tps must be a finite positive number, got %f", c.ServiceRateTPS)
	}
	return nil
}

// ClampUtilization limits u to [MinUtilization, MaxUtilization].
func ClampUtilization(u float64) float64 {
	return math.Max(MinUtilization, math.Min(MaxUtilization, u))
}

// BatchMultiplier is 1 + 0.02*(B-1) + 0.001*τ_b.
func (c QueueConfig) BatchMultiplier() float64 {
	return 1.0 + batchSizeSlope*float64(c.BatchSize-1) + batchTimeoutSlope*c.BatchTimeoutMs
}

// VariabilityMultiplier is (1+scv_arrival) * (1+0.5*scv_service).
func (c QueueConfig) VariabilityMultiplier() float64 {
	return (1 + c.SCVArrival) * (1 + serviceSCVWeight*c.SCVService)
}

// ApproxP95Latency returns the approximate p95 latency in ms at utilization u.
// u is clamped to [1e-6, 0.999]; a NaN utilization yields NaN.
func ApproxP95Latency(u float64, cfg QueueConfig) float64 {
	if math.IsNaN(u) {
		return math.NaN()
	}
	u = ClampUtilization(u)
	base := baseLatencyMs * math.Pow(1.0/(1.0-u), convexityExponent)
	return base * cfg.BatchMultiplier() * cfg.VariabilityMultiplier()
}

// CurvePoint is one sample of the LCI sensitivity curve.
type CurvePoint struct {
	Utilization float64
	P95Ms       float64
	LCI         float64
}

// PenalizedLCI applies the toy comfort-threshold penalty:
// lciBase * (1 + 0.001 * max(0, p95 - 300)).
func PenalizedLCI(lciBase, p95Ms float64) float64 {
	return lciBase * (1.0 + lciPenaltySlope*math.Max(0.0, p95Ms-comfortThresholdMs))
}

// ConvexityCurve maps each utilization in grid to (u, p95, LCI at u).
// The grid order is preserved and u is reported unclamped.
func ConvexityCurve(grid []float64, cfg QueueConfig, lciBase float64) []CurvePoint {
	out := make([]CurvePoint, 0, len(grid))
	for _, u := range grid {
		p95 := ApproxP95Latency(u, cfg)
		out = append(out, CurvePoint{
			Utilization: u,
			P95Ms:       p95,
			LCI:         PenalizedLCI(lciBase, p95),
		})
	}
	return out
}

// UniformGrid returns n evenly spaced points from lo to hi inclusive.
// n <= 0 yields nil; n == 1 yields [lo].
func UniformGrid(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	grid := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range grid {
		grid[i] = lo + step*float64(i)
	}
	grid[n-1] = hi
	return grid
}
