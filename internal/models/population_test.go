package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopulation_AppendKeepsInsertionOrder(t *testing.T) {
	p := NewPopulation()
	assert.True(t, p.Empty())

	p.AppendBaseline(TaskRecord{TaskID: "b1"}, TaskRecord{TaskID: "b2"})
	assert.True(t, p.Empty(), "enhanced side is still empty")

	p.AppendEnhanced(TaskRecord{TaskID: "e1"})
	p.AppendBaseline(TaskRecord{TaskID: "b3"})

	assert.False(t, p.Empty())
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, []string{"b1", "b2", "b3"}, ids(p.Baseline))
	assert.Equal(t, []string{"e1"}, ids(p.Enhanced))
}

func TestPopulation_NoDedup(t *testing.T) {
	p := NewPopulation()
	r := TaskRecord{TaskID: "same"}
	p.AppendBaseline(r, r)
	assert.Len(t, p.Baseline, 2)
}

func TestPopulation_Clear(t *testing.T) {
	p := NewPopulation()
	p.AppendBaseline(TaskRecord{TaskID: "b1"})
	p.AppendEnhanced(TaskRecord{TaskID: "e1"})
	p.Clear()
	assert.Equal(t, 0, p.Len())
	assert.True(t, p.Empty())
}

func TestPopulation_NilIsEmpty(t *testing.T) {
	var p *Population
	assert.True(t, p.Empty())
}

func TestPopulationFromRecords(t *testing.T) {
	records := []TaskRecord{
		{TaskID: "m1", Method: MethodManual},
		{TaskID: "g1", Method: MethodGenerated},
		{TaskID: "m2", Method: MethodManual},
		{TaskID: "x", Method: "other"},
		{TaskID: "g2", Method: MethodGenerated},
	}
	p := PopulationFromRecords(records)
	assert.Equal(t, []string{"m1", "m2"}, ids(p.Baseline))
	assert.Equal(t, []string{"g1", "g2"}, ids(p.Enhanced))
}

func ids(records []TaskRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.TaskID)
	}
	return out
}
