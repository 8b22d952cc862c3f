package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commons-sim/commons-sim/sim"
)

func TestWritePortrayals_OneLinePerAgent(t *testing.T) {
	// GIVEN a default world advanced a few ticks
	cfg := sim.DefaultConfig()
	s, g, err := buildSimulation(cfg, 42)
	require.NoError(t, err)
	require.NoError(t, s.Run(4))

	// WHEN portrayals are written
	var buf bytes.Buffer
	require.NoError(t, writePortrayals(&buf, s, g))

	// THEN there is one decodable line per agent, in registry order, on the grid
	var lines []PortrayalLine
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var l PortrayalLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l), "line %q", sc.Text())
		lines = append(lines, l)
	}
	agents := s.Agents()
	require.Len(t, lines, len(agents))

	for i, l := range lines {
		assert.Equal(t, agents[i].String(), l.Agent)
		assert.Equal(t, int64(4), l.Step)
		assert.True(t, g.InBounds(l.X, l.Y), "%s at (%d,%d)", l.Agent, l.X, l.Y)
		assert.Equal(t, s.Portray(agents[i]), l.Portrayal)
	}
}

func TestWritePortrayals_ResourceColorsMatchOccupancy(t *testing.T) {
	s, g, err := buildSimulation(sim.DefaultConfig(), 3)
	require.NoError(t, err)
	require.NoError(t, s.Run(2))

	var buf bytes.Buffer
	require.NoError(t, writePortrayals(&buf, s, g))

	dec := json.NewDecoder(&buf)
	for {
		var l PortrayalLine
		if err := dec.Decode(&l); err != nil {
			break
		}
		if l.Kind != sim.KindResource.String() {
			continue
		}
		r, ok := s.Resource(l.ID)
		require.True(t, ok)
		want := sim.ColorFree
		if r.Occupied {
			want = sim.ColorOccupied
		}
		assert.Equal(t, want, l.Color)
		assert.Equal(t, sim.ResourceSize, l.Size)
	}
}
