// Package psychology implements the behavioral model behind consumer decisions:
// trust dynamics, a simplified DEA satisfaction ratio, autonomy-adjusted
// cooperation cost, and a sigmoid cooperation probability.
//
// Every function is pure. Randomness, if any, belongs to the caller.
// This package has no dependencies on sim/.
package psychology

import "math"

// Outcome classifies an interaction experience for trust updates.
type Outcome string

const (
	OutcomePositive Outcome = "positive"
	OutcomeNegative Outcome = "negative"
)

// AutonomyEvent names a system event that shifts perceived autonomy.
type AutonomyEvent string

const (
	EventMeaningfulChoice       AutonomyEvent = "meaningful_choice"
	EventJustifiedInstruction   AutonomyEvent = "justified_instruction"
	EventConditionalReward      AutonomyEvent = "conditional_reward"
	EventUnjustifiedInstruction AutonomyEvent = "unjustified_instruction"
	EventForcedDecision         AutonomyEvent = "forced_decision"
)

// autonomyDeltas maps recognized events to their autonomy shift.
var autonomyDeltas = map[AutonomyEvent]float64{
	EventMeaningfulChoice:       0.2,
	EventJustifiedInstruction:   0.1,
	EventConditionalReward:      -0.15,
	EventUnjustifiedInstruction: -0.2,
	EventForcedDecision:         -0.2,
}

// Model calibration constants. Not configurable per call.
const (
	MaxTrust = 100.0

	DefaultBaseTrust = 50.0
	DefaultAIPenalty = 15.0

	// sigmoidSteepness and sigmoidOffset shape CooperationProbability.
	sigmoidSteepness = 5.0
	sigmoidOffset    = 0.5

	// minWeightedInput keeps the satisfaction ratio finite when inputs are ~0.
	minWeightedInput = 0.1

	// negativeTrustFloor is the minimum trust lost per negative event.
	negativeTrustFloor = 10.0
	negativeTrustShare = 0.4
)

// Weights holds a consumer's fixed influence factors.
type Weights struct {
	Trust        float64 // w1
	Satisfaction float64 // w2
	Autonomy     float64 // w3
	Scarcity     float64 // w4
}

// InitialTrust returns base, or base minus penalty (floored at 0) when the
// interaction is mediated by an AI system.
func InitialTrust(base float64, aiPenaltyApplies bool, penalty float64) float64 {
	if aiPenaltyApplies {
		return math.Max(0, base-penalty)
	}
	return base
}

// UpdateTrust applies one interaction outcome to trust.
// Positive gains shrink as trust rises: trust + 100/(10+trust), capped at 100.
// Negative losses are max(10, 40% of trust), floored at 0.
// Unrecognized outcomes leave trust unchanged.
func UpdateTrust(trust float64, outcome Outcome) float64 {
	trust = clamp(trust, 0, MaxTrust)
	switch outcome {
	case OutcomePositive:
		return math.Min(MaxTrust, trust+100/(10+trust))
	case OutcomeNegative:
		loss := math.Max(negativeTrustFloor, trust*negativeTrustShare)
		return math.Max(0, trust-loss)
	}
	return trust
}

// Satisfaction computes min(1, efficiency + proceduralBonus) where efficiency
// is the weighted output/input ratio clamped to 1.
// The weighted input is floored at 0.1.
func Satisfaction(inputs, outputs, weightIn, weightOut, proceduralBonus float64) float64 {
	weightedInput := math.Max(minWeightedInput, inputs*weightIn)
	ratio := (outputs * weightOut) / weightedInput
	efficiency := math.Min(1.0, ratio)
	return clamp(efficiency+proceduralBonus, 0, 1)
}

// CooperationCost returns the subjective cost baseCost / (1 + k*autonomy).
func CooperationCost(baseCost, autonomy, k float64) float64 {
	autonomy = clamp(autonomy, 0, 1)
	return baseCost / (1 + k*autonomy)
}

// CooperationProbability maps psychological state and perceived scarcity to a
// probability in [0, 1]:
//
//	score = w1*trust/100 + w2*satisfaction + w3*autonomy - w4*scarcity
//	p     = 1 / (1 + exp(-5*(score - 0.5)))
func CooperationProbability(trust, satisfaction, autonomy, scarcity float64, w Weights) float64 {
	normTrust := clamp(trust, 0, MaxTrust) / MaxTrust
	score := w.Trust*normTrust +
		w.Satisfaction*clamp(satisfaction, 0, 1) +
		w.Autonomy*clamp(autonomy, 0, 1) -
		w.Scarcity*clamp(scarcity, 0, 1)
	p := 1 / (1 + math.Exp(-sigmoidSteepness*(score-sigmoidOffset)))
	if math.IsNaN(p) {
		return 0
	}
	return clamp(p, 0, 1)
}

// UpdateAutonomy shifts autonomy by the delta for event, clamped to [0, 1].
// Unrecognized events leave autonomy unchanged.
func UpdateAutonomy(autonomy float64, event AutonomyEvent) float64 {
	delta, ok := autonomyDeltas[event]
	if !ok {
		return autonomy
	}
	return clamp(autonomy+delta, 0, 1)
}

// IsValidAutonomyEvent returns true if event is a recognized autonomy event.
func IsValidAutonomyEvent(event string) bool {
	_, ok := autonomyDeltas[AutonomyEvent(event)]
	return ok
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
