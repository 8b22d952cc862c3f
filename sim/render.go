package sim

// Portrayal is how a visualization layer should draw one agent.
type Portrayal struct {
	Color string `json:"color"`
	Size  int    `json:"size"`
}

const (
	ColorOccupied = "red"
	ColorFree     = "green"
	ColorHolding  = "blue"
	ColorIdle     = "grey"

	ResourceSize = 30
	ConsumerSize = 15
	defaultSize  = 10
)

// PortrayResource: occupied → red, free → green, size 30.
func PortrayResource(r *Resource) Portrayal {
	if r.Occupied {
		return Portrayal{Color: ColorOccupied, Size: ResourceSize}
	}
	return Portrayal{Color: ColorFree, Size: ResourceSize}
}

// PortrayConsumer: holding → blue, idle → grey, size 15.
func PortrayConsumer(c *Consumer) Portrayal {
	if c.HeldResource != NoResource {
		return Portrayal{Color: ColorHolding, Size: ConsumerSize}
	}
	return Portrayal{Color: ColorIdle, Size: ConsumerSize}
}

// Portray reads public state only. Unknown refs get grey, size 10.
func (s *Simulation) Portray(ref AgentRef) Portrayal {
	switch ref.Kind {
	case KindResource:
		if r, ok := s.Resource(ref.ID); ok {
			return PortrayResource(r)
		}
	case KindConsumer:
		if c, ok := s.Consumer(ref.ID); ok {
			return PortrayConsumer(c)
		}
	}
	return Portrayal{Color: ColorIdle, Size: defaultSize}
}

// Portrayals returns the portrayal of every registered agent.
func (s *Simulation) Portrayals() map[AgentRef]Portrayal {
	out := make(map[AgentRef]Portrayal, len(s.agents))
	for _, ref := range s.agents {
		out[ref] = s.Portray(ref)
	}
	return out
}
