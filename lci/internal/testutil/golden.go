// Package testutil provides shared test infrastructure for the lci packages.
// It holds the golden chain scenarios and float assertion helpers used across
// lci/ and lci/chain/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Chains []GoldenChainCase `json:"chains"`
}

// GoldenChainCase is one chaining scenario with its expected IPD series.
type GoldenChainCase struct {
	Name     string        `json:"name"`
	Entries  []GoldenEntry `json:"entries"`
	Expected []GoldenPoint `json:"expected"`
}

// GoldenEntry is a (date, family, LCI) input row.
type GoldenEntry struct {
	Date   string  `json:"date"`
	Family string  `json:"family"`
	LCI    float64 `json:"lci"`
}

// GoldenPoint is an expected (date, IPD) output row.
type GoldenPoint struct {
	Date string  `json:"date"`
	IPD  float64 `json:"ipd"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: lci/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// MustDate parses an ISO date or fails the test.
func MustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
