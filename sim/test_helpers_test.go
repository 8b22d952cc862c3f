package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/commons-sim/commons-sim/sim/psychology"
)

// scriptedRand replays fixed draws; exhausted scripts return 0.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

// stubPool is a Pool over a plain resource slice.
type stubPool struct {
	resources []*Resource
	poolSize  int
}

func newStubPool(n, poolSize int) *stubPool {
	p := &stubPool{poolSize: poolSize}
	for i := 0; i < n; i++ {
		p.resources = append(p.resources, NewResource(i))
	}
	return p
}

func (p *stubPool) FreeResources() []*Resource {
	var free []*Resource
	for _, r := range p.resources {
		if !r.Occupied {
			free = append(free, r)
		}
	}
	return free
}

func (p *stubPool) Resource(id int) (*Resource, bool) {
	if id < 0 || id >= len(p.resources) {
		return nil, false
	}
	return p.resources[id], true
}

func (p *stubPool) ScarcityPoolSize() int { return p.poolSize }

var testWeights = psychology.Weights{Trust: 0.4, Satisfaction: 0.3, Autonomy: 0.2, Scarcity: 0.5}

// newTestConsumer creates an idle consumer with baseline state 50 / 0.5 / 0.5.
func newTestConsumer(id int) *Consumer {
	return NewConsumer(id, 50, 0.5, 0.5, testWeights, DefaultMaxUsageDuration)
}

// testConfig returns a valid Config with the given population and resource counts.
func testConfig(population, resources int) Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = population
	cfg.ResourceCount = resources
	return cfg
}

// mustSimulation builds a Simulation or fails the test.
func mustSimulation(t *testing.T, cfg Config, seed int64) *Simulation {
	t.Helper()
	s, err := NewSimulation(cfg, seed, nil)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return s
}

// writeTempYAML writes content to a temp file and returns its path.
func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp yaml: %v", err)
	}
	return path
}
