// Package trace provides decision-trace recording for consumer behavior analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DecisionRecord captures one idle activation: the perceived scarcity, the
// cooperation probability, the defection draw, and what was acquired.
type DecisionRecord struct {
	Step                   int64
	ConsumerID             int
	FreeCount              int
	Scarcity               float64
	CooperationProbability float64
	Draw                   float64
	Defecting              bool
	ResourceID             int // -1 when nothing was free
}

// Acquired reports whether the attempt obtained a resource.
func (d DecisionRecord) Acquired() bool {
	return d.ResourceID >= 0
}

// ReleaseRecord captures the feedback applied when a usage episode ends.
type ReleaseRecord struct {
	Step            int64
	ConsumerID      int
	ResourceID      int
	UsageElapsed    int
	WaitElapsed     int
	Defecting       bool
	NewSatisfaction float64 // episode score before smoothing
	Satisfaction    float64 // running value after smoothing
	Trust           float64 // after the update
}
