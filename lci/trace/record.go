// Package trace records the decisions made while chaining the price index.
// It has no dependencies on lci/ or lci/chain/ and stores pure data types.
package trace

import "time"

// LinkRecord captures one link between two adjacent periods.
type LinkRecord struct {
	From           time.Time
	To             time.Time
	Families       []string // families present in both periods, sorted
	Pairs          int      // matched (prev, curr) value pairs; exceeds len(Families) when a key repeats
	Laspeyres      float64  // mean(curr/prev); 0 when carried forward
	Paasche        float64  // 1/mean(prev/curr); 0 when carried forward
	Fisher         float64  // sqrt(L*P); 1 when carried forward
	CarriedForward bool     // no overlapping families
	Index          float64  // chained index at To before base normalization
}

// SkipRecord captures an input entry that was not usable for chaining.
type SkipRecord struct {
	Date   time.Time
	Family string
	LCI    float64
	Reason string
}
