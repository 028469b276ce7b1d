package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/lci-index/lci"
)

func TestWriteTemplates_CreatesHeaderOnlyFiles(t *testing.T) {
	dir := t.TempDir()

	created, err := WriteTemplates(dir)

	require.NoError(t, err)
	require.Len(t, created, 3)
	data, err := os.ReadFile(filepath.Join(dir, "interim", "merged_inputs.csv"))
	require.NoError(t, err)
	assert.Equal(t, strings.Join(InputColumns, ",")+"\n", string(data))
	assert.FileExists(t, filepath.Join(dir, "evals", "accuracy_schema.csv"))
	assert.FileExists(t, filepath.Join(dir, "evals", "latency_schema.csv"))
}

func TestWriteTemplates_DoesNotOverwrite(t *testing.T) {
	// GIVEN a merged-input file that already holds data
	dir := t.TempDir()
	path := filepath.Join(dir, "interim", "merged_inputs.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("date,family\n2025-01-01,QA\n"), 0644))

	// WHEN templates are written
	created, err := WriteTemplates(dir)

	// THEN only the missing templates are created and the data is untouched
	require.NoError(t, err)
	assert.Len(t, created, 2)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "date,family\n2025-01-01,QA\n", string(data))

	created, err = WriteTemplates(dir)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestDemoObservations_AllValidAndScorable(t *testing.T) {
	scorer, err := lci.NewScorer(lci.DefaultScoringConfig())
	require.NoError(t, err)

	demo := DemoObservations()

	require.Len(t, demo, 6)
	for _, obs := range demo {
		require.NoError(t, obs.Validate())
		row := scorer.Score(obs)
		assert.True(t, row.LCI.Valid(), "%s/%s should have a defined LCI", obs.Family, obs.Model)
	}
	assert.Len(t, lci.AggregateByFamily(scorer.ComputeRows(demo)), 6)
}
