package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/lci-index/lci"
	"github.com/inference-sim/lci-index/lci/latency"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, lci.DefaultExponents(), cfg.Exponents)
	assert.Equal(t, 1000.0, cfg.LatencyTargets.Default)
	assert.Equal(t, 800.0, cfg.LatencyTargets.Families["QA"])
	assert.Equal(t, 1200.0, cfg.LatencyTargets.Families["Code"])
	assert.Equal(t, 0.10, cfg.DefaultOpsOverheadPct)
	assert.Equal(t, latency.DefaultQueueConfig(), cfg.Queue)
	assert.Empty(t, cfg.Store.DBPath)
	require.NoError(t, cfg.Validate())
}

func TestDefault_ReturnsIndependentMaps(t *testing.T) {
	a := Default()
	a.LatencyTargets.Families["QA"] = 1

	assert.Equal(t, 800.0, Default().LatencyTargets.Families["QA"])
}

func TestLoad(t *testing.T) {
	t.Setenv("LCI_TEST_DB", "/tmp/lci-runs.db")

	content := `
exponents:
  accuracy: 1.5
  latency: 0.5
  availability: 0.2
  success: 0.2
latency_targets:
  families:
    QA: 600
    Translation: 900
default_ops_overhead_pct: 0.05
queue:
  servers: 2
  scv_arrival: 0.5
  scv_service: 1.0
  batch_size: 4
  batch_timeout_ms: 5
  service_rate_tps: 200
store:
  db_path: ${LCI_TEST_DB}
`
	path := filepath.Join(t.TempDir(), "lci.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1.5, cfg.Exponents.Accuracy)
	assert.Equal(t, 0.05, cfg.DefaultOpsOverheadPct)
	assert.Equal(t, 2, cfg.Queue.Servers)
	assert.Equal(t, "/tmp/lci-runs.db", cfg.Store.DBPath, "env var not expanded")

	// family targets merge with the defaults
	targets := cfg.Scoring().Targets
	assert.Equal(t, 600.0, targets.Target("QA"))
	assert.Equal(t, 900.0, targets.Target("Translation"))
	assert.Equal(t, 1200.0, targets.Target("Code"))
	assert.Equal(t, 1000.0, targets.Target("Unknown"))
}

func TestParse_PartialDocumentKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("exponents:\n  accuracy: 3\n"))

	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Exponents.Accuracy)
	assert.Equal(t, lci.DefaultLatencyExponent, cfg.Exponents.Latency)
	assert.Equal(t, latency.DefaultQueueConfig(), cfg.Queue)
}

func TestParse_EmptyDocument_ReturnsDefaults(t *testing.T) {
	cfg, err := Parse(nil)

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownKey_ReturnsError(t *testing.T) {
	// GIVEN a typo in a field name
	_, err := Parse([]byte("exponents:\n  acuracy: 3\n"))

	// THEN strict parsing rejects it
	assert.Error(t, err)
}

func TestParse_InvalidValues_ReturnError(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative exponent", "exponents:\n  latency: -1\n"},
		{"zero family target", "latency_targets:\n  families:\n    QA: 0\n"},
		{"negative default target", "latency_targets:\n  default: -5\n"},
		{"negative ops overhead", "default_ops_overhead_pct: -0.1\n"},
		{"zero servers", "queue:\n  servers: 0\n"},
		{"zero service rate", "queue:\n  service_rate_tps: 0\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDigest_StableAndSensitive(t *testing.T) {
	a, b := Default(), Default()
	assert.Equal(t, a.Digest(), b.Digest())
	assert.Len(t, a.Digest(), 64)

	b.Exponents.Accuracy = 1
	assert.NotEqual(t, a.Digest(), b.Digest())
}

func TestScoring_BuildsValidScorer(t *testing.T) {
	_, err := lci.NewScorer(Default().Scoring())
	assert.NoError(t, err)
}
