package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/lci-index/lci"
	"github.com/inference-sim/lci-index/lci/chain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var (
	jan = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	jun = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
)

func sampleRun(created time.Time) Run {
	return Run{
		CreatedAt:    created,
		InputPath:    "data/interim/merged_inputs.csv",
		ConfigDigest: "abc123",
		Observations: 6,
		Dropped:      1,
		Families: []lci.FamilyLCI{
			{Date: jan, Family: "QA", LCI: 1.3e-7, Accuracy: 0.8, P95Ms: 450, PricePerTokenUSD: 1e-5, Rows: 1},
			{Date: jan, Family: "Code", LCI: 3.1e-7, Accuracy: 0.7, P95Ms: 600, PricePerTokenUSD: 1.2e-5, Rows: 2},
			{Date: jun, Family: "QA", LCI: 1.1e-7, Accuracy: 0.82, P95Ms: 430, PricePerTokenUSD: 9.5e-6, Rows: 1},
		},
		Index: []chain.Point{{Date: jan, IPD: 1}, {Date: jun, IPD: 0.84}},
		Meta:  CurrentMeta(),
	}
}

func TestSaveRunAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	run := sampleRun(time.Now().UTC())

	id, err := s.SaveRun(ctx, run)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	index, err := s.LoadIndex(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, run.Index, index)

	families, err := s.LoadFamilies(ctx, id)
	require.NoError(t, err)
	require.Len(t, families, 3)
	// ordered by date, then family
	assert.Equal(t, "Code", families[0].Family)
	assert.Equal(t, "QA", families[1].Family)
	assert.True(t, families[2].Date.Equal(jun))
	assert.Equal(t, run.Families[1], families[0])
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	older := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	newer := older.Add(90 * time.Minute)

	oldID, err := s.SaveRun(ctx, sampleRun(older))
	require.NoError(t, err)
	empty := sampleRun(newer)
	empty.Families, empty.Index = nil, nil
	newID, err := s.SaveRun(ctx, empty)
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, newID, runs[0].ID)
	assert.True(t, runs[0].CreatedAt.Equal(newer))
	assert.Equal(t, 0, runs[0].Points)
	assert.False(t, runs[0].LatestIPD.Valid(), "a run without an index has no latest value")

	assert.Equal(t, oldID, runs[1].ID)
	assert.Equal(t, 3, runs[1].Families)
	assert.Equal(t, 2, runs[1].Points)
	assert.Equal(t, 6, runs[1].Observations)
	assert.Equal(t, 1, runs[1].Dropped)
	assert.Equal(t, "abc123", runs[1].ConfigDigest)
	assert.Equal(t, 0.84, runs[1].LatestIPD.OrElse(-1))
}

func TestListRuns_EmptyStore(t *testing.T) {
	s := newTestStore(t)

	runs, err := s.ListRuns(context.Background())

	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoad_UnknownRun_ReturnsErrRunNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.LoadIndex(ctx, "missing")
	assert.True(t, errors.Is(err, ErrRunNotFound), "got %v", err)

	_, err = s.LoadFamilies(ctx, "missing")
	assert.True(t, errors.Is(err, ErrRunNotFound), "got %v", err)
}

func TestOpen_ReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.SaveRun(ctx, sampleRun(time.Time{}))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.False(t, runs[0].CreatedAt.IsZero(), "zero CreatedAt defaults to now")
}

var _ Store = (*SQLiteStore)(nil)
