// Package chain links per-period family LCI values into a chained Fisher
// price index (IPD) normalized to 1.0 at the base period.
package chain

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/lci-index/lci"
	"github.com/inference-sim/lci-index/lci/trace"
)

// Entry is one (date, family, LCI) input to the chain.
type Entry struct {
	Date   time.Time
	Family string
	LCI    float64
}

// Point is one value of the chained index.
type Point struct {
	Date time.Time
	IPD  float64
}

// Option configures a chaining run.
type Option func(*options)

type options struct {
	trace *trace.ChainTrace
}

// WithTrace records every link and skipped entry into ct.
func WithTrace(ct *trace.ChainTrace) Option {
	return func(o *options) { o.trace = ct }
}

// FromFamilies converts aggregated family rows into chain entries.
func FromFamilies(families []lci.FamilyLCI) []Entry {
	entries := make([]Entry, 0, len(families))
	for _, f := range families {
		entries = append(entries, Entry{Date: f.Date, Family: f.Family, LCI: f.LCI})
	}
	return entries
}

// period holds every LCI value seen for each family on one date, in input order.
type period struct {
	date     time.Time
	families map[string][]float64
}

// Fisher chains the series over its distinct dates in ascending order.
//
// Each adjacent pair of dates is inner-joined on family. With no overlap the
// previous index is carried forward; otherwise the link factor is
// sqrt(L*P) with L = mean(curr/prev) and P = 1/mean(prev/curr). The result is
// divided by its first value so it starts at exactly 1.0. Entries whose LCI
// is not a finite positive number are skipped.
func Fisher(series []Entry, opts ...Option) []Point {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	periods := groupByDate(series, o.trace)
	if len(periods) == 0 {
		return []Point{}
	}

	points := make([]Point, len(periods))
	points[0] = Point{Date: periods[0].date, IPD: 1.0}
	for i := 1; i < len(periods); i++ {
		prev, curr := periods[i-1], periods[i]
		link := linkFactor(prev, curr)
		points[i] = Point{Date: curr.date, IPD: points[i-1].IPD * link.Fisher}
		link.Index = points[i].IPD
		if link.CarriedForward {
			logrus.Warnf("no overlapping families between %s and %s; carrying index %g forward",
				prev.date.Format(time.DateOnly), curr.date.Format(time.DateOnly), points[i-1].IPD)
		}
		if o.trace != nil {
			o.trace.RecordLink(link)
		}
	}

	base := points[0].IPD
	for i := range points {
		points[i].IPD /= base
	}
	return points
}

func groupByDate(series []Entry, ct *trace.ChainTrace) []period {
	byDay := make(map[int64]*period)
	for _, e := range series {
		day := lci.Day(e.Date)
		if math.IsNaN(e.LCI) || math.IsInf(e.LCI, 0) || e.LCI <= 0 {
			logrus.Warnf("skipping %s/%s: LCI must be a finite positive number, got %g",
				day.Format(time.DateOnly), e.Family, e.LCI)
			if ct != nil {
				ct.RecordSkip(trace.SkipRecord{Date: day, Family: e.Family, LCI: e.LCI, Reason: "non-positive or non-finite LCI"})
			}
			continue
		}
		p, ok := byDay[day.Unix()]
		if !ok {
			p = &period{date: day, families: make(map[string][]float64)}
			byDay[day.Unix()] = p
		}
		p.families[e.Family] = append(p.families[e.Family], e.LCI)
	}

	periods := make([]period, 0, len(byDay))
	for _, p := range byDay {
		periods = append(periods, *p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].date.Before(periods[j].date) })
	return periods
}

// linkFactor joins prev and curr on family. Repeated keys join pairwise.
// Families are visited in sorted order so the sums are reproducible.
func linkFactor(prev, curr period) trace.LinkRecord {
	link := trace.LinkRecord{From: prev.date, To: curr.date}

	var up, down []float64 // curr/prev and prev/curr
	for _, family := range sortedFamilies(curr.families) {
		prevVals, ok := prev.families[family]
		if !ok {
			continue
		}
		link.Families = append(link.Families, family)
		for _, p := range prevVals {
			for _, c := range curr.families[family] {
				up = append(up, c/p)
				down = append(down, p/c)
			}
		}
	}
	link.Pairs = len(up)

	if len(up) == 0 {
		link.CarriedForward = true
		link.Fisher = 1.0
		return link
	}
	link.Laspeyres = stat.Mean(up, nil)
	link.Paasche = 1.0 / stat.Mean(down, nil)
	link.Fisher = math.Sqrt(link.Laspeyres * link.Paasche)
	return link
}

func sortedFamilies(m map[string][]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
