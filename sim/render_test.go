package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortrayResource(t *testing.T) {
	r := NewResource(0)
	assert.Equal(t, Portrayal{Color: "green", Size: 30}, PortrayResource(r))
	require.NoError(t, r.Acquire(1))
	assert.Equal(t, Portrayal{Color: "red", Size: 30}, PortrayResource(r))
}

func TestPortrayConsumer(t *testing.T) {
	c := newTestConsumer(0)
	assert.Equal(t, Portrayal{Color: "grey", Size: 15}, PortrayConsumer(c))
	c.HeldResource = 2
	assert.Equal(t, Portrayal{Color: "blue", Size: 15}, PortrayConsumer(c))
}

func TestSimulation_Portray_MatchesState(t *testing.T) {
	// GIVEN 1 resource and 2 consumers after one tick
	s := mustSimulation(t, testConfig(2, 1), 42)
	require.NoError(t, s.Step())

	// THEN the resource is red and exactly one consumer is blue
	assert.Equal(t, "red", s.Portray(AgentRef{Kind: KindResource, ID: 0}).Color)
	blue := 0
	for _, p := range s.Portrayals() {
		if p.Color == "blue" {
			blue++
		}
	}
	assert.Equal(t, 1, blue)
	assert.Len(t, s.Portrayals(), 3)
}

func TestSimulation_Portray_HasNoSideEffects(t *testing.T) {
	s := mustSimulation(t, testConfig(3, 2), 42)
	require.NoError(t, s.Run(4))
	before := s.Snapshot()
	_ = s.Portrayals()
	assert.Equal(t, before, s.Snapshot())
	assert.NoError(t, s.CheckInvariants())
}

func TestSimulation_Portray_UnknownRef(t *testing.T) {
	s := mustSimulation(t, DefaultConfig(), 42)
	assert.Equal(t, Portrayal{Color: "grey", Size: 10}, s.Portray(AgentRef{Kind: KindConsumer, ID: 99}))
	assert.Equal(t, Portrayal{Color: "grey", Size: 10}, s.Portray(AgentRef{Kind: AgentKind(7), ID: 0}))
}

func TestAgentRef_String(t *testing.T) {
	assert.Equal(t, "consumer_3", AgentRef{Kind: KindConsumer, ID: 3}.String())
	assert.Equal(t, "resource_0", AgentRef{Kind: KindResource, ID: 0}.String())
	assert.Equal(t, "AgentKind(9)", AgentKind(9).String())
}
