package lci

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Row is the per-observation LCI output.
type Row struct {
	Date     time.Time
	Family   string
	Provider string
	Model    string
	Region   string

	Accuracy         Maybe
	P95Ms            Maybe
	PricePerTokenUSD Maybe
	QOU              Maybe
	AllInCost        Maybe // C_all_in
	LCI              Maybe
}

// FamilyLCI is the median summary of all defined rows sharing a (date, family) key.
type FamilyLCI struct {
	Date             time.Time
	Family           string
	LCI              float64
	Accuracy         float64
	P95Ms            float64
	PricePerTokenUSD float64
	Rows             int // rows contributing to the medians
}

// Ratio returns cost / qou. It is undefined when either input is undefined or
// qou is zero, so a degenerate observation never becomes +Inf.
func Ratio(cost, qou Maybe) Maybe {
	c, ok := cost.Get()
	if !ok {
		return None()
	}
	q, ok := qou.Get()
	if !ok || q == 0 {
		return None()
	}
	return Some(c / q)
}

// Score derives QOU, all-in cost and LCI for one observation.
// An observation that fails Validate keeps its identity fields but has
// undefined derived values.
func (s *Scorer) Score(obs Observation) Row {
	row := Row{
		Date:             Day(obs.Date),
		Family:           obs.Family,
		Provider:         obs.Provider,
		Model:            obs.Model,
		Region:           obs.Region,
		Accuracy:         obs.Accuracy,
		P95Ms:            obs.P95Ms,
		PricePerTokenUSD: obs.PricePerTokenUSD,
	}
	if err := obs.Validate(); err != nil {
		logrus.Debugf("excluding invalid observation: %v", err)
		return row
	}
	row.QOU = s.QOU(obs)
	row.AllInCost = s.AllInCost(obs)
	row.LCI = Ratio(row.AllInCost, row.QOU)
	return row
}

// ComputeRows scores every observation in input order. The input slice is not modified.
func (s *Scorer) ComputeRows(obs []Observation) []Row {
	rows := make([]Row, 0, len(obs))
	undefined := 0
	for _, o := range obs {
		row := s.Score(o)
		if !row.LCI.Valid() {
			undefined++
		}
		rows = append(rows, row)
	}
	if undefined > 0 {
		logrus.Debugf("%d of %d observations have undefined LCI and will be excluded from aggregation", undefined, len(rows))
	}
	return rows
}

type groupKey struct {
	day    time.Time
	family string
}

// AggregateByFamily groups rows by (date, family) and takes the median of LCI,
// accuracy, p95 latency and price over rows with a defined LCI. Groups without
// any defined LCI are omitted. Output is sorted by date, then family.
func AggregateByFamily(rows []Row) []FamilyLCI {
	groups := make(map[groupKey][]Row)
	for _, r := range rows {
		if !allValid(r.LCI, r.Accuracy, r.P95Ms, r.PricePerTokenUSD) {
			continue
		}
		k := groupKey{day: Day(r.Date), family: r.Family}
		groups[k] = append(groups[k], r)
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].day.Equal(keys[j].day) {
			return keys[i].day.Before(keys[j].day)
		}
		return keys[i].family < keys[j].family
	})

	out := make([]FamilyLCI, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		out = append(out, FamilyLCI{
			Date:             k.day,
			Family:           k.family,
			LCI:              medianOf(g, func(r Row) Maybe { return r.LCI }),
			Accuracy:         medianOf(g, func(r Row) Maybe { return r.Accuracy }),
			P95Ms:            medianOf(g, func(r Row) Maybe { return r.P95Ms }),
			PricePerTokenUSD: medianOf(g, func(r Row) Maybe { return r.PricePerTokenUSD }),
			Rows:             len(g),
		})
	}
	return out
}

func medianOf(rows []Row, field func(Row) Maybe) float64 {
	vals := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := field(r).Get(); ok {
			vals = append(vals, v)
		}
	}
	m, _ := Median(vals).Get()
	return m
}

// Median returns the middle value of xs, averaging the two middle values for an
// even count. It is undefined for an empty slice. xs is not modified.
func Median(xs []float64) Maybe {
	n := len(xs)
	if n == 0 {
		return None()
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return Some(sorted[n/2])
	}
	return Some((sorted[n/2-1] + sorted[n/2]) / 2)
}

// LatestSnapshot returns the rows for the most recent date, preserving input order.
func LatestSnapshot(families []FamilyLCI) []FamilyLCI {
	if len(families) == 0 {
		return nil
	}
	latest := families[0].Date
	for _, f := range families[1:] {
		if f.Date.After(latest) {
			latest = f.Date
		}
	}
	var out []FamilyLCI
	for _, f := range families {
		if f.Date.Equal(latest) {
			out = append(out, f)
		}
	}
	return out
}
