package sim

// StateView is an aggregate re-derived from agent state; nothing in it is
// stored between ticks.
type StateView struct {
	Step             int64   `json:"step"`
	Occupied         int     `json:"occupied"`
	Free             int     `json:"free"`
	Holding          int     `json:"holding"`
	Idle             int     `json:"idle"`
	Defecting        int     `json:"defecting"`
	MeanTrust        float64 `json:"mean_trust"`
	MeanSatisfaction float64 `json:"mean_satisfaction"`
	MeanAutonomy     float64 `json:"mean_autonomy"`
}

// Snapshot derives the current StateView.
func (s *Simulation) Snapshot() StateView {
	v := StateView{Step: s.StepCount}
	for _, r := range s.Resources {
		if r.Occupied {
			v.Occupied++
		} else {
			v.Free++
		}
	}
	for _, c := range s.Consumers {
		if c.State() == StateHolding {
			v.Holding++
		} else {
			v.Idle++
		}
		if c.Defecting {
			v.Defecting++
		}
		v.MeanTrust += c.Trust
		v.MeanSatisfaction += c.Satisfaction
		v.MeanAutonomy += c.Autonomy
	}
	if n := float64(len(s.Consumers)); n > 0 {
		v.MeanTrust /= n
		v.MeanSatisfaction /= n
		v.MeanAutonomy /= n
	}
	return v
}
