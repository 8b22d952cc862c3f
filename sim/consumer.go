// Defines the Consumer agent: its psychological state, its resource-holding
// state, and the Idle/Holding step state machine.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/commons-sim/commons-sim/sim/psychology"
)

// ConsumerState is the step state machine position of a Consumer.
type ConsumerState string

const (
	StateIdle    ConsumerState = "idle"
	StateHolding ConsumerState = "holding"
)

// Feedback constants applied when a usage episode ends.
const (
	// baseEffort is added to wait time to form the satisfaction input.
	baseEffort = 1.0
	// satisfactionMemory is the weight kept on the running satisfaction.
	satisfactionMemory = 0.7
	// defectionFactor multiplies the hold limit for defectors.
	defectionFactor = 2
)

// StepAction names what a consumer did during one activation.
type StepAction string

const (
	ActionWaited   StepAction = "waited"   // idle, no free resource
	ActionAcquired StepAction = "acquired" // idle → holding
	ActionUsed     StepAction = "used"     // holding, limit not reached
	ActionReleased StepAction = "released" // holding → idle
)

// StepOutcome reports one consumer activation.
// Decision fields are set for waited/acquired; feedback fields for released.
type StepOutcome struct {
	Action     StepAction
	ConsumerID int
	ResourceID int // resource acquired, used or released; NoResource when waited

	// Decision (idle activations)
	FreeCount              int
	Scarcity               float64
	CooperationProbability float64
	Draw                   float64
	Defecting              bool

	// Feedback (release activations)
	UsageElapsed    int
	WaitElapsed     int
	NewSatisfaction float64
}

// Consumer competes for resources. Weights are fixed after construction.
//
// Invariants between steps:
//   - HeldResource != NoResource ⇒ that resource is Occupied with HolderID == ID
//   - HeldResource == NoResource ⇒ UsageElapsed == 0
type Consumer struct {
	ID int

	HeldResource int // resource ID, or NoResource
	UsageElapsed int // steps spent holding the current resource
	WaitElapsed  int // steps spent without a resource since the last release
	Defecting    bool

	Trust        float64 // [0,100]
	Satisfaction float64 // [0,1]
	Autonomy     float64 // [0,1]
	Weights      psychology.Weights

	MaxUsageDuration int
}

// NewConsumer creates an idle consumer with the given baseline state.
// maxUsage <= 0 selects DefaultMaxUsageDuration.
func NewConsumer(id int, trust, satisfaction, autonomy float64, w psychology.Weights, maxUsage int) *Consumer {
	if maxUsage <= 0 {
		maxUsage = DefaultMaxUsageDuration
	}
	return &Consumer{
		ID:               id,
		HeldResource:     NoResource,
		Trust:            trust,
		Satisfaction:     satisfaction,
		Autonomy:         autonomy,
		Weights:          w,
		MaxUsageDuration: maxUsage,
	}
}

// State returns StateHolding when a resource is held, StateIdle otherwise.
func (c *Consumer) State() ConsumerState {
	if c.HeldResource != NoResource {
		return StateHolding
	}
	return StateIdle
}

// HoldLimit is the number of use steps after which the resource is released:
// MaxUsageDuration when cooperating, twice that when defecting.
func (c *Consumer) HoldLimit() int {
	if c.Defecting {
		return defectionFactor * c.MaxUsageDuration
	}
	return c.MaxUsageDuration
}

// Step advances the consumer by one activation: a request attempt when idle,
// one unit of use when holding.
func (c *Consumer) Step(pool Pool, rng Rand) (StepOutcome, error) {
	if c.HeldResource == NoResource {
		return c.requestResource(pool, rng)
	}
	return c.useResource(pool)
}

// Scarcity returns 1 - free/total for the given pool view.
// total is the configured pool size, which may differ from the live count.
func Scarcity(freeCount, total int) float64 {
	if total <= 0 {
		total = DefaultScarcityPoolSize
	}
	return 1 - float64(freeCount)/float64(total)
}

func (c *Consumer) requestResource(pool Pool, rng Rand) (StepOutcome, error) {
	c.WaitElapsed++

	free := pool.FreeResources()
	scarcity := Scarcity(len(free), pool.ScarcityPoolSize())
	pCoop := psychology.CooperationProbability(c.Trust, c.Satisfaction, c.Autonomy, scarcity, c.Weights)

	// Decided on every idle tick, even when nothing is free.
	draw := rng.Float64()
	c.Defecting = draw >= pCoop

	out := StepOutcome{
		Action:                 ActionWaited,
		ConsumerID:             c.ID,
		ResourceID:             NoResource,
		FreeCount:              len(free),
		Scarcity:               scarcity,
		CooperationProbability: pCoop,
		Draw:                   draw,
		Defecting:              c.Defecting,
		WaitElapsed:            c.WaitElapsed,
	}
	if len(free) == 0 {
		return out, nil
	}

	res := free[rng.Intn(len(free))]
	if err := res.Acquire(c.ID); err != nil {
		return out, err
	}
	c.HeldResource = res.ID
	c.UsageElapsed = 0

	logrus.Debugf("Consumer %d received resource %d (p_coop=%.3f, defecting=%v)", c.ID, res.ID, pCoop, c.Defecting)
	out.Action = ActionAcquired
	out.ResourceID = res.ID
	return out, nil
}

func (c *Consumer) useResource(pool Pool) (StepOutcome, error) {
	res, ok := pool.Resource(c.HeldResource)
	if !ok || !res.Occupied || res.HolderID != c.ID {
		return StepOutcome{}, fmt.Errorf("%w: consumer %d holds resource %d which does not point back",
			ErrInvariantViolation, c.ID, c.HeldResource)
	}

	c.UsageElapsed++
	out := StepOutcome{
		Action:       ActionUsed,
		ConsumerID:   c.ID,
		ResourceID:   res.ID,
		Defecting:    c.Defecting,
		UsageElapsed: c.UsageElapsed,
		WaitElapsed:  c.WaitElapsed,
	}
	if c.UsageElapsed < c.HoldLimit() {
		return out, nil
	}
	return c.releaseResource(res, out)
}

// releaseResource frees res and folds the episode into satisfaction and trust.
func (c *Consumer) releaseResource(res *Resource, out StepOutcome) (StepOutcome, error) {
	if err := res.Release(); err != nil {
		return out, err
	}
	usage := c.UsageElapsed
	c.HeldResource = NoResource
	c.UsageElapsed = 0

	inputs := float64(c.WaitElapsed) + baseEffort
	outputs := float64(usage)
	newSat := psychology.Satisfaction(inputs, outputs, 1.0, 1.0, 0)
	c.Satisfaction = satisfactionMemory*c.Satisfaction + (1-satisfactionMemory)*newSat

	// Every completed episode counts as positive, defecting or not.
	c.Trust = psychology.UpdateTrust(c.Trust, psychology.OutcomePositive)
	c.WaitElapsed = 0

	logrus.Debugf("Consumer %d released resource %d after %d steps (satisfaction=%.3f, trust=%.2f)",
		c.ID, res.ID, usage, c.Satisfaction, c.Trust)

	out.Action = ActionReleased
	out.NewSatisfaction = newSat
	return out, nil
}

// ApplyAutonomyEvent shifts autonomy for a recognized event; others are ignored.
func (c *Consumer) ApplyAutonomyEvent(event psychology.AutonomyEvent) {
	c.Autonomy = psychology.UpdateAutonomy(c.Autonomy, event)
}

// CooperationCost is the subjective cost of cooperating given current autonomy (k = 1).
func (c *Consumer) CooperationCost(baseCost float64) float64 {
	return psychology.CooperationCost(baseCost, c.Autonomy, 1.0)
}

// String returns a human-readable representation of a Consumer.
func (c Consumer) String() string {
	return fmt.Sprintf("Consumer: (ID: %d, State: %s, Resource: %d, Usage: %d, Wait: %d, Trust: %.2f, Satisfaction: %.3f)",
		c.ID, c.State(), c.HeldResource, c.UsageElapsed, c.WaitElapsed, c.Trust, c.Satisfaction)
}
