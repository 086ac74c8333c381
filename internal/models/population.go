package models

import "errors"

// ErrInsufficientData is returned when a comparison is requested while the
// baseline or the enhanced population holds no records.
var ErrInsufficientData = errors.New("insufficient data: baseline and enhanced populations each need at least one task")

// Population is the caller-owned pair of append-only record logs that the
// scoring engine reads. A single writer appends; all appends must complete
// before any score is computed.
type Population struct {
	Baseline []TaskRecord `json:"baseline"`
	Enhanced []TaskRecord `json:"enhanced"`
}

// NewPopulation returns an empty population.
func NewPopulation() *Population {
	return &Population{}
}

// PopulationFromRecords partitions a flat record list by Method, keeping
// insertion order inside each side. Records with an unknown method are dropped.
func PopulationFromRecords(records []TaskRecord) *Population {
	p := NewPopulation()
	for _, r := range records {
		switch r.Method {
		case MethodManual:
			p.AppendBaseline(r)
		case MethodGenerated:
			p.AppendEnhanced(r)
		}
	}
	return p
}

// AppendBaseline adds records to the baseline (manual prompt) log.
func (p *Population) AppendBaseline(records ...TaskRecord) {
	p.Baseline = append(p.Baseline, records...)
}

// AppendEnhanced adds records to the enhanced (generated prompt) log.
func (p *Population) AppendEnhanced(records ...TaskRecord) {
	p.Enhanced = append(p.Enhanced, records...)
}

// Clear drops every record from both sides.
func (p *Population) Clear() {
	p.Baseline = nil
	p.Enhanced = nil
}

// Len returns the total number of records on both sides.
func (p *Population) Len() int {
	return len(p.Baseline) + len(p.Enhanced)
}

// Empty reports whether either side has no records, i.e. whether a
// comparison would be undefined.
func (p *Population) Empty() bool {
	return p == nil || len(p.Baseline) == 0 || len(p.Enhanced) == 0
}
