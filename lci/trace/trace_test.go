package trace

import (
	"testing"
	"time"
)

func TestChainTrace_RecordLink_AppendsRecord(t *testing.T) {
	// GIVEN an empty trace
	ct := NewChainTrace()
	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	// WHEN a link record is recorded
	ct.RecordLink(LinkRecord{From: from, To: to, Families: []string{"qa"}, Pairs: 1, Fisher: 0.5, Index: 0.5})

	// THEN the trace contains one link with correct data
	if len(ct.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(ct.Links))
	}
	if !ct.Links[0].To.Equal(to) {
		t.Errorf("expected To %v, got %v", to, ct.Links[0].To)
	}
	if ct.Links[0].Fisher != 0.5 {
		t.Errorf("expected Fisher 0.5, got %g", ct.Links[0].Fisher)
	}
	if len(ct.Skipped) != 0 {
		t.Errorf("expected no skip records, got %d", len(ct.Skipped))
	}
}

func TestChainTrace_RecordSkip_AppendsInOrder(t *testing.T) {
	ct := NewChainTrace()

	ct.RecordSkip(SkipRecord{Family: "qa", LCI: 0, Reason: "zero"})
	ct.RecordSkip(SkipRecord{Family: "code", LCI: -1, Reason: "negative"})

	if len(ct.Skipped) != 2 {
		t.Fatalf("expected 2 skip records, got %d", len(ct.Skipped))
	}
	if ct.Skipped[0].Family != "qa" || ct.Skipped[1].Family != "code" {
		t.Errorf("expected insertion order [qa code], got [%s %s]", ct.Skipped[0].Family, ct.Skipped[1].Family)
	}
}
