package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/inference-sim/lci-index/lci"
	"github.com/inference-sim/lci-index/lci/chain"
	"github.com/inference-sim/lci-index/lci/config"
	"github.com/inference-sim/lci-index/lci/dataset"
	"github.com/inference-sim/lci-index/lci/store"
	"github.com/inference-sim/lci-index/lci/trace"
)

// Output file names written by the run command.
const (
	rowsFile     = "lci_rows.csv"
	familiesFile = "lci_by_family.csv"
	latestFile   = "lci_latest.csv"
	indexFile    = "ipd.csv"
)

// pipelineResult holds every table produced from one observation set.
type pipelineResult struct {
	Rows     []lci.Row
	Families []lci.FamilyLCI
	Index    []chain.Point
	Trace    *trace.ChainTrace
}

// runPipeline scores, aggregates and chains obs under cfg.
func runPipeline(cfg *config.Config, obs []lci.Observation) (*pipelineResult, error) {
	scorer, err := lci.NewScorer(cfg.Scoring())
	if err != nil {
		return nil, err
	}
	res := &pipelineResult{Trace: trace.NewChainTrace()}
	res.Rows = scorer.ComputeRows(obs)
	res.Families = lci.AggregateByFamily(res.Rows)
	res.Index = chain.Fisher(chain.FromFamilies(res.Families), chain.WithTrace(res.Trace))
	return res, nil
}

// writeOutputs writes the pipeline tables into dir and returns the paths written.
func writeOutputs(dir string, res *pipelineResult) ([]string, error) {
	outputs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{rowsFile, func(w io.Writer) error { return dataset.WriteRows(w, res.Rows) }},
		{familiesFile, func(w io.Writer) error { return dataset.WriteFamilies(w, res.Families) }},
		{latestFile, func(w io.Writer) error { return dataset.WriteFamilies(w, lci.LatestSnapshot(res.Families)) }},
		{indexFile, func(w io.Writer) error { return dataset.WriteIndex(w, res.Index) }},
	}
	paths := make([]string, 0, len(outputs))
	for _, o := range outputs {
		path := filepath.Join(dir, o.name)
		if err := dataset.WriteFile(path, o.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// recordRun stores the pipeline result in the SQLite run history at dbPath.
func recordRun(ctx context.Context, dbPath, inputPath string, cfg *config.Config, loaded *dataset.LoadResult, res *pipelineResult) (string, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = s.Close() }()

	id, err := s.SaveRun(ctx, store.Run{
		InputPath:    inputPath,
		ConfigDigest: cfg.Digest(),
		Observations: len(loaded.Observations),
		Dropped:      loaded.Dropped,
		Families:     res.Families,
		Index:        res.Index,
		Meta:         store.CurrentMeta(),
	})
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return id, nil
}
