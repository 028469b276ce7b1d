package trace

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChainSummary aggregates statistics from a ChainTrace.
type ChainSummary struct {
	Links          int
	CarriedForward int
	SkippedEntries int
	MeanFisher     float64 // over links that were not carried forward
	MinFisher      float64
	MaxFisher      float64
	FamilyCoverage map[string]int // family → number of links it contributed to
}

// Summarize computes aggregate statistics from a ChainTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(ct *ChainTrace) *ChainSummary {
	summary := &ChainSummary{
		FamilyCoverage: make(map[string]int),
	}
	if ct == nil {
		return summary
	}

	summary.Links = len(ct.Links)
	summary.SkippedEntries = len(ct.Skipped)

	factors := make([]float64, 0, len(ct.Links))
	for _, l := range ct.Links {
		if l.CarriedForward {
			summary.CarriedForward++
			continue
		}
		factors = append(factors, l.Fisher)
		for _, f := range l.Families {
			summary.FamilyCoverage[f]++
		}
	}

	if len(factors) > 0 {
		summary.MeanFisher = stat.Mean(factors, nil)
		summary.MinFisher = floats.Min(factors)
		summary.MaxFisher = floats.Max(factors)
	}

	return summary
}

// CoveredFamilies returns the families in FamilyCoverage in sorted order.
func (s *ChainSummary) CoveredFamilies() []string {
	names := make([]string, 0, len(s.FamilyCoverage))
	for f := range s.FamilyCoverage {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}
