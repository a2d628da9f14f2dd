package metrics

import (
	"github.com/san-kum/dissolve/internal/driver"
	"github.com/san-kum/dissolve/internal/phase"
	"github.com/san-kum/dissolve/internal/sim"
)

// PhaseOccupancy is the fraction of active samples spent in one phase.
type PhaseOccupancy struct {
	phase  phase.Phase
	active int
	inside int
}

func NewPhaseOccupancy(p phase.Phase) *PhaseOccupancy {
	return &PhaseOccupancy{phase: p}
}

func (o *PhaseOccupancy) Name() string { return "occupancy_" + o.phase.String() }

func (o *PhaseOccupancy) Observe(s sim.Sample) {
	if s.Status != driver.Active {
		return
	}
	o.active++
	if s.Phase == o.phase {
		o.inside++
	}
}

func (o *PhaseOccupancy) Value() float64 {
	if o.active == 0 {
		return 0
	}
	return float64(o.inside) / float64(o.active)
}

func (o *PhaseOccupancy) Reset() {
	o.active = 0
	o.inside = 0
}
