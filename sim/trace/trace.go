package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every idle decision and every release.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelDecisions
}

// SimulationTrace collects decision and release records during a run.
type SimulationTrace struct {
	Config    TraceConfig
	Decisions []DecisionRecord
	Releases  []ReleaseRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:    config,
		Decisions: make([]DecisionRecord, 0),
		Releases:  make([]ReleaseRecord, 0),
	}
}

// RecordDecision appends a decision record.
func (st *SimulationTrace) RecordDecision(record DecisionRecord) {
	st.Decisions = append(st.Decisions, record)
}

// RecordRelease appends a release record.
func (st *SimulationTrace) RecordRelease(record ReleaseRecord) {
	st.Releases = append(st.Releases, record)
}

// DecisionsAt returns the decision records of one step, in activation order.
func (st *SimulationTrace) DecisionsAt(step int64) []DecisionRecord {
	var out []DecisionRecord
	for _, d := range st.Decisions {
		if d.Step == step {
			out = append(out, d)
		}
	}
	return out
}
