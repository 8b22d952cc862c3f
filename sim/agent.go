package sim

import "fmt"

// AgentKind tags the variant an AgentRef points at.
type AgentKind int

const (
	KindResource AgentKind = iota
	KindConsumer
)

// String returns "resource" or "consumer".
func (k AgentKind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindConsumer:
		return "consumer"
	}
	return fmt.Sprintf("AgentKind(%d)", int(k))
}

// AgentRef identifies one registry entry. IDs are dense per kind and index
// directly into Simulation.Resources or Simulation.Consumers.
type AgentRef struct {
	Kind AgentKind
	ID   int
}

// String returns e.g. "consumer_3".
func (r AgentRef) String() string {
	return fmt.Sprintf("%s_%d", r.Kind, r.ID)
}

// Decider is an agent that acts when activated.
// Resources are passive and do not implement it.
type Decider interface {
	Step(pool Pool, rng Rand) (StepOutcome, error)
}

// Rand is the subset of *rand.Rand used by consumer decisions.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Pool is the consumer's view of the shared resource pool.
type Pool interface {
	// FreeResources lists unoccupied resources in ascending ID order.
	FreeResources() []*Resource
	// Resource looks a resource up by ID.
	Resource(id int) (*Resource, bool)
	// ScarcityPoolSize is the configured resource total used as scarcity denominator.
	ScarcityPoolSize() int
}
