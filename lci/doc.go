// Package lci computes the quality-adjusted inference cost index (LCI).
//
// # Reading Guide
//
// Start with these files:
//   - observation.go: one measured data point and its optional numeric fields
//   - qou.go: quality-of-use scoring (accuracy, latency penalty, availability, success rate)
//   - cost.go: all-in cost per output token
//   - compute.go: per-row LCI and the per-(date, family) median aggregation
//
// # Architecture
//
// The lci package owns the observation model and the scoring formulas; the
// remaining stages live in sub-packages:
//   - lci/latency/: queueing approximation for p95 latency and LCI sensitivity curves
//   - lci/chain/: Fisher chaining of family LCI values into the IPD series
//   - lci/trace/: per-link records of the chaining decisions
//   - lci/dataset/: CSV ingestion and table export
//   - lci/config/: YAML scoring and queue configuration
//   - lci/store/: SQLite run history
//
// Missing inputs never become zero or infinity. Every derived quantity is a
// Maybe, and rows are excluded from aggregation in exactly one place
// (AggregateByFamily).
package lci
