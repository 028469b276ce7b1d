package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inference-sim/lci-index/lci"
)

// Schema templates for data collection, relative to the data directory.
var templates = []struct {
	path   string
	header []string
}{
	{filepath.Join("interim", "merged_inputs.csv"), InputColumns},
	{filepath.Join("evals", "accuracy_schema.csv"),
		[]string{"date", "family", "provider", "model", "region", "metric", "value", "N", "source", "url", "notes"}},
	{filepath.Join("evals", "latency_schema.csv"),
		[]string{"date", "provider", "model", "region", "p50_ms", "p95_ms", "N", "window_start", "window_end", "method", "notes"}},
}

// WriteTemplates writes header-only schema files under dir. Existing files are
// left untouched. It returns the paths that were created.
func WriteTemplates(dir string) ([]string, error) {
	var created []string
	for _, t := range templates {
		path := filepath.Join(dir, t.path)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return created, fmt.Errorf("checking %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return created, fmt.Errorf("creating directory for %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(strings.Join(t.header, ",")+"\n"), 0644); err != nil {
			return created, fmt.Errorf("writing %s: %w", path, err)
		}
		created = append(created, path)
	}
	return created, nil
}

// DemoObservations returns a deterministic seed dataset covering three families
// on two dates, for use when no measured input is available.
func DemoObservations() []lci.Observation {
	jan := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	demo := func(date time.Time, family, model string, acc, p50, p95, tps, price float64) lci.Observation {
		return lci.Observation{
			Date:             date,
			Family:           family,
			Provider:         "example",
			Model:            model,
			Region:           "global",
			Accuracy:         lci.Some(acc),
			P50Ms:            lci.Some(p50),
			P95Ms:            lci.Some(p95),
			Availability:     lci.Some(0.999),
			SuccessRate:      lci.Some(0.999),
			TokensPerSec:     lci.Some(tps),
			PricePerTokenUSD: lci.Some(price),
			OpsOverheadPct:   lci.Some(0.0),
		}
	}
	return []lci.Observation{
		demo(jan, "QA", "example-A", 0.80, 300, 450, 120, 1.0e-5),
		demo(jan, "Code", "example-B", 0.70, 400, 600, 80, 1.2e-5),
		demo(jan, "Summarization", "example-C", 0.75, 350, 500, 100, 9.0e-6),
		demo(jun, "QA", "example-A2", 0.82, 290, 430, 130, 9.5e-6),
		demo(jun, "Code", "example-B2", 0.72, 360, 540, 90, 1.1e-5),
		demo(jun, "Summarization", "example-C2", 0.77, 330, 490, 110, 8.5e-6),
	}
}
