package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commons-sim/commons-sim/sim"
	"github.com/commons-sim/commons-sim/sim/snapshot"
	"github.com/commons-sim/commons-sim/sim/trace"
)

// newFlagCmd returns a throwaway command bound to the shared simulation flags,
// with every flag variable reset to its default.
func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	registerSimulationFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestResolveConfig_NoFlags_ReturnsDefaults(t *testing.T) {
	cfg, err := resolveConfig(newFlagCmd(t))
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig(), cfg)
}

func TestResolveConfig_ChangedFlagsOverrideConfigFile(t *testing.T) {
	// GIVEN a config file setting population and grid size
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("population_size: 20\ngrid_width: 30\ngrid_height: 30\n"), 0o644))

	// WHEN only --population and --ai-mediated are passed explicitly
	cfg, err := resolveConfig(newFlagCmd(t, "--config", path, "--population", "7", "--ai-mediated"))
	require.NoError(t, err)

	// THEN explicit flags win and file values survive for the rest
	assert.Equal(t, 7, cfg.PopulationSize)
	assert.True(t, cfg.AIMediated)
	assert.Equal(t, 30, cfg.GridWidth, "unchanged --width default must not clobber the file")
	assert.Equal(t, 30, cfg.GridHeight)
	assert.Equal(t, 3, cfg.ResourceCount)
}

func TestResolveConfig_InvalidOverride_ReturnsConfigurationError(t *testing.T) {
	_, err := resolveConfig(newFlagCmd(t, "--resources", "0"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sim.ErrConfiguration))
}

func TestResolveConfig_MissingFile_ReturnsError(t *testing.T) {
	_, err := resolveConfig(newFlagCmd(t, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Error(t, err)
}

func TestAdvance_RunsRequestedSteps(t *testing.T) {
	s, _, err := buildSimulation(sim.DefaultConfig(), 42)
	require.NoError(t, err)

	require.NoError(t, advance(s, 25, 10))

	assert.Equal(t, int64(25), s.StepCount)
	assert.Equal(t, int64(25), s.Metrics.Steps)
}

func TestBuildSimulation_SameSeed_SamePlacement(t *testing.T) {
	_, g1, err := buildSimulation(sim.DefaultConfig(), 9)
	require.NoError(t, err)
	s2, g2, err := buildSimulation(sim.DefaultConfig(), 9)
	require.NoError(t, err)

	for _, ref := range s2.Agents() {
		p1, ok1 := g1.Position(ref)
		p2, ok2 := g2.Position(ref)
		require.True(t, ok1 && ok2, "%s not placed", ref)
		assert.Equal(t, p1, p2, "%s placed differently", ref)
	}
}

func TestPrintTraceSummary_ListsCounters(t *testing.T) {
	// GIVEN a traced run
	s, _, err := buildSimulation(sim.DefaultConfig(), 42)
	require.NoError(t, err)
	s.EnableTrace(trace.TraceLevelDecisions)
	require.NoError(t, s.Run(30))

	// WHEN the summary is printed
	var buf bytes.Buffer
	printTraceSummary(&buf, trace.Summarize(s.Trace))

	// THEN every headline counter is present
	out := buf.String()
	assert.Contains(t, out, "=== Decision Trace ===")
	assert.Contains(t, out, "Decisions")
	assert.Contains(t, out, "Defection Rate")
	assert.Contains(t, out, "Mean Hold Duration")
}

func TestSaveSnapshot_WritesFinalState(t *testing.T) {
	// GIVEN a simulation advanced 12 ticks
	s, _, err := buildSimulation(sim.DefaultConfig(), 42)
	require.NoError(t, err)
	require.NoError(t, s.Run(12))
	path := filepath.Join(t.TempDir(), "state.db")

	// WHEN the snapshot is saved
	require.NoError(t, saveSnapshot(path, s, 42))

	// THEN it can be reopened and reports the step and every agent
	db, err := snapshot.Open(path)
	require.NoError(t, err)
	defer db.Close()

	step, err := db.LastStep()
	require.NoError(t, err)
	assert.Equal(t, int64(12), step)

	consumers, err := db.LoadConsumers()
	require.NoError(t, err)
	assert.Len(t, consumers, s.Config.PopulationSize)

	resources, err := db.LoadResources()
	require.NoError(t, err)
	assert.Len(t, resources, s.Config.ResourceCount)
}

func TestRootCmd_HasRunAndPortray(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["portray"])

	f := runCmd.Flags().Lookup("trace-level")
	require.NotNil(t, f)
	assert.Equal(t, "none", f.DefValue)
	assert.Nil(t, portrayCmd.Flags().Lookup("snapshot-db"), "portray does not persist state")
}
