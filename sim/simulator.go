// sim/simulator.go
package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/commons-sim/commons-sim/sim/psychology"
	"github.com/commons-sim/commons-sim/sim/trace"
)

// Placer is the grid service agents are placed on at construction.
type Placer interface {
	Place(ref AgentRef, x, y int) error
}

// Simulation owns every Resource and Consumer and advances the world one tick
// at a time. Resources and Consumers reference each other only by ID; the
// slices below are the lookup tables (index == ID).
//
// Thread-safety: NOT thread-safe. Activation is strictly sequential.
type Simulation struct {
	Config    Config
	StepCount int64

	Resources []*Resource
	Consumers []*Consumer

	// agents is the registry shuffled on every tick.
	agents    []AgentRef
	lastOrder []AgentRef

	rng     *PartitionedRNG
	Metrics *Metrics
	// Trace is nil unless decision tracing was requested.
	Trace *trace.SimulationTrace
}

// NewSimulation validates cfg, creates resources then consumers, and places each
// on placer (if non-nil) at uniformly random coordinates.
func NewSimulation(cfg Config, seed int64, placer Placer) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		Config:    cfg,
		Resources: make([]*Resource, 0, cfg.ResourceCount),
		Consumers: make([]*Consumer, 0, cfg.PopulationSize),
		agents:    make([]AgentRef, 0, cfg.ResourceCount+cfg.PopulationSize),
		rng:       NewPartitionedRNG(NewSimulationKey(seed)),
		Metrics:   NewMetrics(),
	}

	population := s.rng.ForSubsystem(SubsystemPopulation)
	trust := psychology.InitialTrust(cfg.BaseTrust, cfg.AIMediated, cfg.AIPenalty)
	maxUsage := cfg.EffectiveMaxUsageDuration()

	for i := 0; i < cfg.ResourceCount; i++ {
		s.Resources = append(s.Resources, NewResource(i))
		s.agents = append(s.agents, AgentRef{Kind: KindResource, ID: i})
	}
	for i := 0; i < cfg.PopulationSize; i++ {
		w := sampleWeights(population, cfg.Weights)
		s.Consumers = append(s.Consumers, NewConsumer(i, trust, cfg.BaseSatisfaction, cfg.BaseAutonomy, w, maxUsage))
		s.agents = append(s.agents, AgentRef{Kind: KindConsumer, ID: i})
	}

	if placer != nil {
		placement := s.rng.ForSubsystem(SubsystemPlacement)
		for _, ref := range s.agents {
			x := placement.Intn(cfg.GridWidth)
			y := placement.Intn(cfg.GridHeight)
			if err := placer.Place(ref, x, y); err != nil {
				return nil, fmt.Errorf("placing %s: %w", ref, err)
			}
		}
	}

	logrus.Debugf("Simulation created: %d consumers, %d resources, max usage %d, scarcity pool %d",
		cfg.PopulationSize, cfg.ResourceCount, maxUsage, cfg.EffectiveScarcityPoolSize())
	return s, nil
}

// EnableTrace starts collecting decision records at the given level.
// TraceLevelNone (or "") disables it.
func (s *Simulation) EnableTrace(level trace.TraceLevel) {
	cfg := trace.TraceConfig{Level: level}
	if !cfg.Enabled() {
		s.Trace = nil
		return
	}
	s.Trace = trace.NewSimulationTrace(cfg)
}

func sampleWeights(rng *rand.Rand, wr WeightRanges) psychology.Weights {
	return psychology.Weights{
		Trust:        sampleRange(rng, wr.Trust),
		Satisfaction: sampleRange(rng, wr.Satisfaction),
		Autonomy:     sampleRange(rng, wr.Autonomy),
		Scarcity:     sampleRange(rng, wr.Scarcity),
	}
}

func sampleRange(rng *rand.Rand, r Range) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// FreeResources returns unoccupied resources in ascending ID order,
// reflecting every acquisition and release made so far in the current tick.
func (s *Simulation) FreeResources() []*Resource {
	free := make([]*Resource, 0, len(s.Resources))
	for _, r := range s.Resources {
		if !r.Occupied {
			free = append(free, r)
		}
	}
	return free
}

// Resource looks a resource up by ID.
func (s *Simulation) Resource(id int) (*Resource, bool) {
	if id < 0 || id >= len(s.Resources) {
		return nil, false
	}
	return s.Resources[id], true
}

// Consumer looks a consumer up by ID.
func (s *Simulation) Consumer(id int) (*Consumer, bool) {
	if id < 0 || id >= len(s.Consumers) {
		return nil, false
	}
	return s.Consumers[id], true
}

// ScarcityPoolSize returns the configured scarcity denominator.
func (s *Simulation) ScarcityPoolSize() int {
	return s.Config.EffectiveScarcityPoolSize()
}

// Agents returns the registry in creation order: resources first, then consumers.
func (s *Simulation) Agents() []AgentRef {
	out := make([]AgentRef, len(s.agents))
	copy(out, s.agents)
	return out
}

// ActivationOrder returns the order used by the most recent Step.
func (s *Simulation) ActivationOrder() []AgentRef {
	out := make([]AgentRef, len(s.lastOrder))
	copy(out, s.lastOrder)
	return out
}

// Step increments the step counter and activates every agent exactly once in
// a freshly shuffled order. The first invariant violation aborts the tick and
// is returned.
func (s *Simulation) Step() error {
	s.StepCount++

	order := s.lastOrder[:0]
	order = append(order, s.agents...)
	activation := s.rng.ForSubsystem(SubsystemActivation)
	activation.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	s.lastOrder = order

	decision := s.rng.ForSubsystem(SubsystemDecision)
	for _, ref := range order {
		switch ref.Kind {
		case KindResource:
			// passive
		case KindConsumer:
			out, err := s.Consumers[ref.ID].Step(s, decision)
			if err != nil {
				return fmt.Errorf("step %d: %s: %w", s.StepCount, ref, err)
			}
			s.record(out)
		default:
			return fmt.Errorf("%w: step %d: unknown agent kind %v", ErrInvariantViolation, s.StepCount, ref.Kind)
		}
	}

	if err := s.CheckInvariants(); err != nil {
		return fmt.Errorf("step %d: %w", s.StepCount, err)
	}
	s.Metrics.observeOccupancy(len(s.Resources) - len(s.FreeResources()))
	return nil
}

// Run advances the simulation by n steps, stopping at the first error.
func (s *Simulation) Run(n int64) error {
	for i := int64(0); i < n; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	logrus.Infof("[step %07d] Simulation ended", s.StepCount)
	return nil
}

// record folds one consumer outcome into metrics and, if enabled, the trace.
func (s *Simulation) record(out StepOutcome) {
	s.Metrics.observe(out)
	if s.Trace == nil {
		return
	}
	switch out.Action {
	case ActionWaited, ActionAcquired:
		s.Trace.RecordDecision(trace.DecisionRecord{
			Step:                   s.StepCount,
			ConsumerID:             out.ConsumerID,
			FreeCount:              out.FreeCount,
			Scarcity:               out.Scarcity,
			CooperationProbability: out.CooperationProbability,
			Draw:                   out.Draw,
			Defecting:              out.Defecting,
			ResourceID:             out.ResourceID,
		})
	case ActionReleased:
		c := s.Consumers[out.ConsumerID]
		s.Trace.RecordRelease(trace.ReleaseRecord{
			Step:            s.StepCount,
			ConsumerID:      out.ConsumerID,
			ResourceID:      out.ResourceID,
			UsageElapsed:    out.UsageElapsed,
			WaitElapsed:     out.WaitElapsed,
			Defecting:       out.Defecting,
			NewSatisfaction: out.NewSatisfaction,
			Satisfaction:    c.Satisfaction,
			Trust:           c.Trust,
		})
	}
}

// CheckInvariants verifies the mutual references between resources and consumers:
// every resource's Occupied flag matches its holder, every holder points back,
// and idle consumers have no usage accrued.
func (s *Simulation) CheckInvariants() error {
	holders := make(map[int]int, len(s.Resources))
	for _, r := range s.Resources {
		if !r.consistent() {
			return fmt.Errorf("%w: resource %d occupied=%v holder=%d", ErrInvariantViolation, r.ID, r.Occupied, r.HolderID)
		}
		if !r.Occupied {
			continue
		}
		c, ok := s.Consumer(r.HolderID)
		if !ok || c.HeldResource != r.ID {
			return fmt.Errorf("%w: resource %d holder %d does not hold it", ErrInvariantViolation, r.ID, r.HolderID)
		}
		holders[r.HolderID]++
	}
	for _, c := range s.Consumers {
		if c.HeldResource == NoResource {
			if c.UsageElapsed != 0 {
				return fmt.Errorf("%w: idle consumer %d has usage %d", ErrInvariantViolation, c.ID, c.UsageElapsed)
			}
			continue
		}
		r, ok := s.Resource(c.HeldResource)
		if !ok || !r.Occupied || r.HolderID != c.ID {
			return fmt.Errorf("%w: consumer %d holds resource %d which does not point back", ErrInvariantViolation, c.ID, c.HeldResource)
		}
		if holders[c.ID] != 1 {
			return fmt.Errorf("%w: consumer %d holds %d resources", ErrInvariantViolation, c.ID, holders[c.ID])
		}
	}
	return nil
}
