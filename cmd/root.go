package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/commons-sim/commons-sim/sim"
	"github.com/commons-sim/commons-sim/sim/grid"
	"github.com/commons-sim/commons-sim/sim/snapshot"
	"github.com/commons-sim/commons-sim/sim/trace"
)

var (
	// CLI flags shared by run and portray
	seed       int64  // Master seed for placement, weights, activation and decisions
	steps      int64  // Number of ticks to simulate
	logLevel   string // Log verbosity level
	configPath string // Optional YAML config; flags explicitly set override it

	// Simulation parameters
	populationSize   int  // Number of consumers
	resourceCount    int  // Number of shared resources
	gridWidth        int  // Grid columns
	gridHeight       int  // Grid rows
	maxUsageDuration int  // Cooperative hold limit in ticks
	scarcityPoolSize int  // Resource total assumed when computing scarcity
	aiMediated       bool // Apply the AI trust penalty to initial trust

	// Run-only outputs
	traceLevel  string // Decision trace level (none, decisions)
	snapshotDB  string // SQLite path for the final state (empty = no snapshot)
	logEveryNth int64  // Log a state line every N ticks at info level (0 = never)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "commons-sim",
	Short: "Discrete-time simulator for a shared-resource commons",
}

// runCmd executes the simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the commons simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		logrus.Infof("Starting simulation with %d consumers, %d resources, grid=%dx%d, steps=%d, seed=%d",
			cfg.PopulationSize, cfg.ResourceCount, cfg.GridWidth, cfg.GridHeight, steps, seed)
		startTime := time.Now()

		s, _, err := buildSimulation(cfg, seed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		s.EnableTrace(trace.TraceLevel(traceLevel))

		if err := advance(s, steps, logEveryNth); err != nil {
			logrus.Fatalf("Simulation aborted: %v", err)
		}

		s.Metrics.Print(os.Stdout, s.Snapshot())
		if s.Trace != nil {
			printTraceSummary(os.Stdout, trace.Summarize(s.Trace))
		}

		if snapshotDB != "" {
			if err := saveSnapshot(snapshotDB, s, seed); err != nil {
				logrus.Fatalf("Failed to save snapshot: %v", err)
			}
			logrus.Infof("State saved to %s", snapshotDB)
		}

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// resolveConfig starts from DefaultConfig (or the --config file) and applies
// every simulation flag the user explicitly set.
func resolveConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("population") {
		cfg.PopulationSize = populationSize
	}
	if flags.Changed("resources") {
		cfg.ResourceCount = resourceCount
	}
	if flags.Changed("width") {
		cfg.GridWidth = gridWidth
	}
	if flags.Changed("height") {
		cfg.GridHeight = gridHeight
	}
	if flags.Changed("max-usage") {
		cfg.MaxUsageDuration = maxUsageDuration
	}
	if flags.Changed("scarcity-pool") {
		cfg.ScarcityPoolSize = scarcityPoolSize
	}
	if flags.Changed("ai-mediated") {
		cfg.AIMediated = aiMediated
	}
	return cfg, cfg.Validate()
}

// buildSimulation creates the grid and the world placed on it.
func buildSimulation(cfg sim.Config, seed int64) (*sim.Simulation, *grid.MultiGrid[sim.AgentRef], error) {
	g, err := grid.NewMultiGrid[sim.AgentRef](cfg.GridWidth, cfg.GridHeight)
	if err != nil {
		return nil, nil, err
	}
	s, err := sim.NewSimulation(cfg, seed, g)
	if err != nil {
		return nil, nil, err
	}
	return s, g, nil
}

// advance runs n ticks, logging a state line every nth tick when nth > 0.
func advance(s *sim.Simulation, n, nth int64) error {
	for i := int64(0); i < n; i++ {
		if err := s.Step(); err != nil {
			return err
		}
		if nth > 0 && s.StepCount%nth == 0 {
			v := s.Snapshot()
			logrus.Infof("[step %07d] occupied=%d holding=%d idle=%d trust=%.2f satisfaction=%.3f",
				v.Step, v.Occupied, v.Holding, v.Idle, v.MeanTrust, v.MeanSatisfaction)
		}
	}
	return nil
}

func saveSnapshot(path string, s *sim.Simulation, seed int64) error {
	db, err := snapshot.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.SaveState(s, uuid.New(), seed)
}

func printTraceSummary(w io.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Decision Trace ===")
	fmt.Fprintf(w, "Decisions            : %d (acquired: %d)\n", ts.TotalDecisions, ts.Acquisitions)
	fmt.Fprintf(w, "Defection Rate       : %.3f\n", ts.DefectionRate)
	fmt.Fprintf(w, "Mean P(cooperate)    : %.3f\n", ts.MeanCooperationProbability)
	fmt.Fprintf(w, "Mean Scarcity        : %.3f\n", ts.MeanScarcity)
	fmt.Fprintf(w, "Releases             : %d (defecting: %d)\n", ts.Releases, ts.DefectingReleases)
	fmt.Fprintf(w, "Mean Hold Duration   : %.2f\n", ts.MeanHoldDuration)
}

func registerSimulationFlags(c *cobra.Command) {
	c.Flags().Int64Var(&seed, "seed", 42, "Seed for placement, weights, activation order and decisions")
	c.Flags().Int64Var(&steps, "steps", 100, "Number of ticks to simulate")
	c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	c.Flags().StringVar(&configPath, "config", "", "YAML simulation config (flags explicitly set take precedence)")

	c.Flags().IntVar(&populationSize, "population", 5, "Number of consumers")
	c.Flags().IntVar(&resourceCount, "resources", 3, "Number of shared resources")
	c.Flags().IntVar(&gridWidth, "width", 10, "Grid width")
	c.Flags().IntVar(&gridHeight, "height", 10, "Grid height")
	c.Flags().IntVar(&maxUsageDuration, "max-usage", sim.DefaultMaxUsageDuration, "Cooperative hold limit in ticks (defectors hold twice as long)")
	c.Flags().IntVar(&scarcityPoolSize, "scarcity-pool", 0, "Resource total assumed for scarcity (0 = 10)")
	c.Flags().BoolVar(&aiMediated, "ai-mediated", false, "Apply the AI trust penalty to initial trust")
}

// init sets up CLI flags and subcommands
func init() {
	registerSimulationFlags(runCmd)
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&snapshotDB, "snapshot-db", "", "SQLite file to store the final state in")
	runCmd.Flags().Int64Var(&logEveryNth, "log-every", 0, "Log a state line every N ticks at info level (0 = never)")

	registerSimulationFlags(portrayCmd)

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(portrayCmd)
}
