package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_NilTrace_ReturnsZeroSummary(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalDecisions)
	assert.Equal(t, 0, s.Releases)
	assert.NotNil(t, s.ResourceDistribution)
}

func TestSummarize_EmptyTrace_NoDivisionByZero(t *testing.T) {
	s := Summarize(NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions}))
	assert.Equal(t, 0.0, s.DefectionRate)
	assert.Equal(t, 0.0, s.MeanHoldDuration)
}

func TestSummarize_AggregatesDecisionsAndReleases(t *testing.T) {
	// GIVEN four decisions (two defecting, three acquiring) and two releases
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordDecision(DecisionRecord{Step: 1, ConsumerID: 0, Scarcity: 0.0, CooperationProbability: 0.8, Defecting: false, ResourceID: 0})
	st.RecordDecision(DecisionRecord{Step: 1, ConsumerID: 1, Scarcity: 0.5, CooperationProbability: 0.6, Defecting: true, ResourceID: 1})
	st.RecordDecision(DecisionRecord{Step: 1, ConsumerID: 2, Scarcity: 1.0, CooperationProbability: 0.2, Defecting: true, ResourceID: -1})
	st.RecordDecision(DecisionRecord{Step: 2, ConsumerID: 2, Scarcity: 0.5, CooperationProbability: 0.4, Defecting: false, ResourceID: 0})
	st.RecordRelease(ReleaseRecord{Step: 6, ConsumerID: 0, ResourceID: 0, UsageElapsed: 5})
	st.RecordRelease(ReleaseRecord{Step: 11, ConsumerID: 1, ResourceID: 1, UsageElapsed: 10, Defecting: true})

	// WHEN summarized
	s := Summarize(st)

	// THEN counts and means match
	assert.Equal(t, 4, s.TotalDecisions)
	assert.Equal(t, 3, s.Acquisitions)
	assert.Equal(t, 2, s.Defections)
	assert.InDelta(t, 0.5, s.DefectionRate, 1e-12)
	assert.InDelta(t, 0.5, s.MeanCooperationProbability, 1e-12)
	assert.InDelta(t, 0.5, s.MeanScarcity, 1e-12)
	assert.Equal(t, 2, s.Releases)
	assert.Equal(t, 1, s.DefectingReleases)
	assert.InDelta(t, 7.5, s.MeanHoldDuration, 1e-12)
	assert.Equal(t, map[int]int{0: 2, 1: 1}, s.ResourceDistribution)
}
