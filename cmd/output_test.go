package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/lci-index/lci"
	"github.com/inference-sim/lci-index/lci/chain"
	"github.com/inference-sim/lci-index/lci/store"
	"github.com/inference-sim/lci-index/lci/trace"
)

var jan = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestPrintSnapshot_RendersOneLinePerFamily(t *testing.T) {
	var buf bytes.Buffer

	err := printSnapshot(&buf, []lci.FamilyLCI{
		{Date: jan, Family: "Code", LCI: 3.06e-7, Accuracy: 0.7, P95Ms: 600, PricePerTokenUSD: 1.2e-5, Rows: 1},
		{Date: jan, Family: "QA", LCI: 1.3e-7, Accuracy: 0.8, P95Ms: 450, PricePerTokenUSD: 1e-5, Rows: 2},
	})

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "DATE"))
	assert.Contains(t, lines[1], "Code")
	assert.Contains(t, lines[2], "QA")
	assert.Contains(t, lines[2], "1.3e-07")
}

func TestPrintSnapshot_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSnapshot(&buf, nil))
	assert.Equal(t, "No family LCI rows.\n", buf.String())
}

func TestPrintIndex(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, printIndex(&buf, []chain.Point{{Date: jan, IPD: 1}, {Date: jan.AddDate(0, 5, 0), IPD: 0.8}}))

	assert.Contains(t, buf.String(), "2025-06-01  0.800000")
}

func TestPrintChainSummary_OmitsFactorsWhenAllCarriedForward(t *testing.T) {
	ct := trace.NewChainTrace()
	ct.RecordLink(trace.LinkRecord{CarriedForward: true, Fisher: 1})
	var buf bytes.Buffer

	require.NoError(t, printChainSummary(&buf, trace.Summarize(ct)))

	assert.Contains(t, buf.String(), "Carried forward:")
	assert.NotContains(t, buf.String(), "Fisher factor")
	assert.NotContains(t, buf.String(), "Family coverage")
}

func TestPrintChainSummary_ListsCoverage(t *testing.T) {
	ct := trace.NewChainTrace()
	ct.RecordLink(trace.LinkRecord{Families: []string{"QA", "Code"}, Fisher: 0.9})
	var buf bytes.Buffer

	require.NoError(t, printChainSummary(&buf, trace.Summarize(ct)))

	assert.Contains(t, buf.String(), "0.900000 / 0.900000 / 0.900000")
	assert.Contains(t, buf.String(), "Code=1 QA=1")
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRuns(&buf, nil))
	assert.Equal(t, "No runs recorded.\n", buf.String())

	buf.Reset()
	err := printRuns(&buf, []store.RunSummary{
		{ID: "run-a", CreatedAt: jan, InputPath: "demo", ConfigDigest: "0123456789abcdef", LatestIPD: lci.Some(0.75)},
		{ID: "run-b", CreatedAt: jan, InputPath: "in.csv"},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "0.750000")
	assert.Contains(t, out, "0123456789ab")
	assert.NotContains(t, out, "0123456789abc")
	assert.Contains(t, out, "run-b")
}
