package cmd

import (
	"encoding/json"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/commons-sim/commons-sim/sim"
	"github.com/commons-sim/commons-sim/sim/grid"
)

// PortrayalLine is one JSON line of portray output.
type PortrayalLine struct {
	Step  int64  `json:"step"`
	Agent string `json:"agent"`
	Kind  string `json:"kind"`
	ID    int    `json:"id"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	sim.Portrayal
}

// portrayCmd advances the simulation and prints the renderer output per agent
var portrayCmd = &cobra.Command{
	Use:   "portray",
	Short: "Print grid position, color and size of every agent as JSON lines",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		s, g, err := buildSimulation(cfg, seed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := s.Run(steps); err != nil {
			logrus.Fatalf("Simulation aborted: %v", err)
		}
		if err := writePortrayals(os.Stdout, s, g); err != nil {
			logrus.Fatalf("Failed to write portrayals: %v", err)
		}
	},
}

// writePortrayals emits one line per agent in registry order.
func writePortrayals(w io.Writer, s *sim.Simulation, g *grid.MultiGrid[sim.AgentRef]) error {
	enc := json.NewEncoder(w)
	for _, ref := range s.Agents() {
		pos, _ := g.Position(ref)
		line := PortrayalLine{
			Step:      s.StepCount,
			Agent:     ref.String(),
			Kind:      ref.Kind.String(),
			ID:        ref.ID,
			X:         pos.X,
			Y:         pos.Y,
			Portrayal: s.Portray(ref),
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}
