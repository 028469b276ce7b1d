// Package dataset reads observation tables and writes the LCI, family and
// index tables as CSV.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/lci-index/lci"
)

// InputColumns is the merged-input schema, in canonical order.
var InputColumns = []string{
	"date", "family", "provider", "model", "region", "accuracy",
	"p50_ms", "p95_ms", "q", "s", "tokens_per_sec", "price_per_token_usd", "ops_pct",
}

// columnAliases maps alternative header names onto canonical columns.
var columnAliases = map[string]string{
	"a": "accuracy",
}

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.DateTime,
}

// LoadResult holds parsed observations and the number of rows that could not be used.
type LoadResult struct {
	Observations []lci.Observation
	Dropped      int // rows without a parseable date or a family
}

// LoadObservationsFile opens path and parses it with LoadObservations.
func LoadObservationsFile(path string) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening observations: %w", err)
	}
	defer func() { _ = file.Close() }()
	return LoadObservations(file)
}

// LoadObservations parses a header-led observation CSV. Columns are matched by
// name, so order does not matter and absent numeric columns read as undefined.
// Empty, "nan" or unparseable numeric cells are undefined. Rows whose date
// cannot be parsed, or that have no family, are dropped and counted.
// An empty input (no header) yields an empty result.
func LoadObservations(r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &LoadResult{Observations: []lci.Observation{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	idx := indexColumns(header)
	if _, ok := idx["date"]; !ok {
		return nil, fmt.Errorf("observations: missing required column %q", "date")
	}
	if _, ok := idx["family"]; !ok {
		return nil, fmt.Errorf("observations: missing required column %q", "family")
	}

	result := &LoadResult{Observations: []lci.Observation{}}
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		date, err := parseDate(get("date"))
		if err != nil {
			logrus.Debugf("dropping row %d: %v", line, err)
			result.Dropped++
			continue
		}
		family := get("family")
		if family == "" {
			logrus.Debugf("dropping row %d: empty family", line)
			result.Dropped++
			continue
		}
		result.Observations = append(result.Observations, lci.Observation{
			Date:             date,
			Family:           family,
			Provider:         get("provider"),
			Model:            get("model"),
			Region:           get("region"),
			Accuracy:         parseMaybe(get("accuracy")),
			P50Ms:            parseMaybe(get("p50_ms")),
			P95Ms:            parseMaybe(get("p95_ms")),
			Availability:     parseMaybe(get("q")),
			SuccessRate:      parseMaybe(get("s")),
			TokensPerSec:     parseMaybe(get("tokens_per_sec")),
			PricePerTokenUSD: parseMaybe(get("price_per_token_usd")),
			OpsOverheadPct:   parseMaybe(get("ops_pct")),
		})
	}
	if result.Dropped > 0 {
		logrus.Infof("dropped %d of %d input rows without a usable date or family", result.Dropped, line-1)
	}
	return result, nil
}

// indexColumns maps canonical column names to their positions. When both an
// alias and its canonical name are present the canonical column wins.
func indexColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if canonical, ok := columnAliases[name]; ok {
			if _, exists := idx[canonical]; !exists {
				idx[canonical] = i
			}
			continue
		}
		idx[name] = i
	}
	return idx
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return lci.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func parseMaybe(s string) lci.Maybe {
	if s == "" {
		return lci.None()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return lci.None()
	}
	return lci.Some(v)
}
