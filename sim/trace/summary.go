package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions             int
	Acquisitions               int
	Defections                 int
	DefectionRate              float64
	MeanCooperationProbability float64
	MeanScarcity               float64
	Releases                   int
	DefectingReleases          int
	MeanHoldDuration           float64
	ResourceDistribution       map[int]int // resource ID → acquisitions
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ResourceDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Decisions)
	if summary.TotalDecisions > 0 {
		totalP, totalScarcity := 0.0, 0.0
		for _, d := range st.Decisions {
			totalP += d.CooperationProbability
			totalScarcity += d.Scarcity
			if d.Defecting {
				summary.Defections++
			}
			if d.Acquired() {
				summary.Acquisitions++
				summary.ResourceDistribution[d.ResourceID]++
			}
		}
		n := float64(summary.TotalDecisions)
		summary.DefectionRate = float64(summary.Defections) / n
		summary.MeanCooperationProbability = totalP / n
		summary.MeanScarcity = totalScarcity / n
	}

	summary.Releases = len(st.Releases)
	if summary.Releases > 0 {
		totalHold := 0
		for _, r := range st.Releases {
			totalHold += r.UsageElapsed
			if r.Defecting {
				summary.DefectingReleases++
			}
		}
		summary.MeanHoldDuration = float64(totalHold) / float64(summary.Releases)
	}

	return summary
}
