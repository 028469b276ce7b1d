package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/inference-sim/lci-index/lci"
	"github.com/inference-sim/lci-index/lci/chain"
	"github.com/inference-sim/lci-index/lci/store"
	"github.com/inference-sim/lci-index/lci/trace"
)

const tableTimeFormat = "2006-01-02T15:04:05"

// printSnapshot renders a family LCI table.
func printSnapshot(out io.Writer, families []lci.FamilyLCI) error {
	if len(families) == 0 {
		_, err := fmt.Fprintln(out, "No family LCI rows.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tFAMILY\tLCI\tACCURACY\tP95 MS\tPRICE/TOKEN\tROWS")
	for _, f := range families {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.4g\t%.3f\t%.0f\t%.3g\t%d\n",
			f.Date.Format("2006-01-02"), f.Family, f.LCI, f.Accuracy, f.P95Ms, f.PricePerTokenUSD, f.Rows)
	}
	return w.Flush()
}

// printIndex renders an IPD series.
func printIndex(out io.Writer, index []chain.Point) error {
	if len(index) == 0 {
		_, err := fmt.Fprintln(out, "No index points.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tIPD")
	for _, p := range index {
		_, _ = fmt.Fprintf(w, "%s\t%.6f\n", p.Date.Format("2006-01-02"), p.IPD)
	}
	return w.Flush()
}

// printChainSummary renders the link statistics of a chaining run.
func printChainSummary(out io.Writer, s *trace.ChainSummary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Links:\t%d\n", s.Links)
	_, _ = fmt.Fprintf(w, "Carried forward:\t%d\n", s.CarriedForward)
	_, _ = fmt.Fprintf(w, "Skipped entries:\t%d\n", s.SkippedEntries)
	if s.Links > s.CarriedForward {
		_, _ = fmt.Fprintf(w, "Fisher factor (mean/min/max):\t%.6f / %.6f / %.6f\n", s.MeanFisher, s.MinFisher, s.MaxFisher)
	}
	coverage := make([]string, 0, len(s.FamilyCoverage))
	for _, f := range s.CoveredFamilies() {
		coverage = append(coverage, fmt.Sprintf("%s=%d", f, s.FamilyCoverage[f]))
	}
	if len(coverage) > 0 {
		_, _ = fmt.Fprintf(w, "Family coverage:\t%s\n", strings.Join(coverage, " "))
	}
	return w.Flush()
}

// printRuns renders the run history listing.
func printRuns(out io.Writer, runs []store.RunSummary) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No runs recorded.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RUN ID\tCREATED\tINPUT\tOBS\tDROPPED\tFAMILIES\tPOINTS\tLATEST IPD\tCONFIG")
	for _, r := range runs {
		latest := "-"
		if v, ok := r.LatestIPD.Get(); ok {
			latest = fmt.Sprintf("%.6f", v)
		}
		digest := r.ConfigDigest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, r.CreatedAt.Format(tableTimeFormat), r.InputPath, r.Observations, r.Dropped, r.Families, r.Points, latest, digest)
	}
	return w.Flush()
}
