// Tracks simulation-wide counters such as acquisitions, releases and occupancy.

package sim

import (
	"fmt"
	"io"
)

// Metrics aggregates counters about the simulation for final reporting.
// Useful for evaluating how much defection the commons sustains.
type Metrics struct {
	Steps             int64 // ticks observed
	Acquisitions      int   // idle → holding transitions
	Releases          int   // holding → idle transitions
	DefectingReleases int   // releases after an overstay
	FailedAttempts    int   // idle activations with nothing free
	Defections        int   // idle decisions that came out defecting
	Decisions         int   // idle decisions taken
	OccupancySum      int64 // integral of occupied resources over ticks
	PeakOccupancy     int   // max simultaneously occupied resources
}

// NewMetrics returns zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) observe(out StepOutcome) {
	switch out.Action {
	case ActionWaited:
		m.Decisions++
		m.FailedAttempts++
		if out.Defecting {
			m.Defections++
		}
	case ActionAcquired:
		m.Decisions++
		m.Acquisitions++
		if out.Defecting {
			m.Defections++
		}
	case ActionReleased:
		m.Releases++
		if out.Defecting {
			m.DefectingReleases++
		}
	}
}

func (m *Metrics) observeOccupancy(occupied int) {
	m.Steps++
	m.OccupancySum += int64(occupied)
	if occupied > m.PeakOccupancy {
		m.PeakOccupancy = occupied
	}
}

// DefectionRate is the share of idle decisions that came out defecting.
func (m *Metrics) DefectionRate() float64 {
	if m.Decisions == 0 {
		return 0
	}
	return float64(m.Defections) / float64(m.Decisions)
}

// MeanOccupancy is the average number of occupied resources per tick.
func (m *Metrics) MeanOccupancy() float64 {
	if m.Steps == 0 {
		return 0
	}
	return float64(m.OccupancySum) / float64(m.Steps)
}

// Print writes aggregated metrics and the current population view to w.
func (m *Metrics) Print(w io.Writer, view StateView) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Steps                : %d\n", m.Steps)
	fmt.Fprintf(w, "Acquisitions         : %d\n", m.Acquisitions)
	fmt.Fprintf(w, "Releases             : %d (defecting: %d)\n", m.Releases, m.DefectingReleases)
	fmt.Fprintf(w, "Failed Attempts      : %d\n", m.FailedAttempts)
	fmt.Fprintf(w, "Defection Rate       : %.3f\n", m.DefectionRate())
	if m.Steps > 0 {
		fmt.Fprintf(w, "Mean Occupancy       : %.2f resources\n", m.MeanOccupancy())
		fmt.Fprintf(w, "Peak Occupancy       : %d resources\n", m.PeakOccupancy)
	}
	fmt.Fprintf(w, "Holding / Idle       : %d / %d\n", view.Holding, view.Idle)
	fmt.Fprintf(w, "Mean Trust           : %.2f\n", view.MeanTrust)
	fmt.Fprintf(w, "Mean Satisfaction    : %.3f\n", view.MeanSatisfaction)
	fmt.Fprintf(w, "Mean Autonomy        : %.3f\n", view.MeanAutonomy)
}
