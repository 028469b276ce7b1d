package trace

// ChainTrace collects link and skip records during one chaining run.
type ChainTrace struct {
	Links   []LinkRecord
	Skipped []SkipRecord
}

// NewChainTrace creates a ChainTrace ready for recording.
func NewChainTrace() *ChainTrace {
	return &ChainTrace{
		Links:   make([]LinkRecord, 0),
		Skipped: make([]SkipRecord, 0),
	}
}

// RecordLink appends a link record.
func (ct *ChainTrace) RecordLink(record LinkRecord) {
	ct.Links = append(ct.Links, record)
}

// RecordSkip appends a skip record.
func (ct *ChainTrace) RecordSkip(record SkipRecord) {
	ct.Skipped = append(ct.Skipped, record)
}
