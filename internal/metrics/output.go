package metrics

import (
	"math"

	"github.com/san-kum/dissolve/internal/driver"
	"github.com/san-kum/dissolve/internal/phase"
	"github.com/san-kum/dissolve/internal/sim"
)

// Default returns the metrics recorded for every stored run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewPeak(),
		NewMean(),
		NewSecondaryPeak(),
		NewCycles(),
		NewPhaseOccupancy(phase.PauseStart),
		NewPhaseOccupancy(phase.Transitioning),
		NewPhaseOccupancy(phase.PauseEnd),
	}
}

type Peak struct {
	name string
	max  float64
	pick func(sim.Sample) float64
}

func NewPeak() *Peak {
	return &Peak{name: "peak", pick: func(s sim.Sample) float64 { return s.Primary }}
}

func NewSecondaryPeak() *Peak {
	return &Peak{name: "peak_secondary", pick: func(s sim.Sample) float64 { return s.Secondary }}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(s sim.Sample) {
	p.max = math.Max(p.max, p.pick(s))
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() { p.max = 0 }

type Mean struct {
	samples int
	total   float64
}

func NewMean() *Mean { return &Mean{} }

func (m *Mean) Name() string { return "mean" }

func (m *Mean) Observe(s sim.Sample) {
	m.total += s.Primary
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Mean) Reset() {
	m.total = 0
	m.samples = 0
}

// Cycles counts completed cycles: a looping driver completes one each time a
// reverse ramp gives way to the next forward half, a one-shot driver when it
// reaches Completed.
type Cycles struct {
	count      int
	lastDir    phase.Direction
	lastStatus driver.Status
	seen       bool
}

func NewCycles() *Cycles { return &Cycles{} }

func (c *Cycles) Name() string { return "cycles" }

func (c *Cycles) Observe(s sim.Sample) {
	if c.seen {
		if s.Status == driver.Active && c.lastStatus == driver.Active &&
			c.lastDir == phase.Reverse && s.Direction == phase.Forward {
			c.count++
		}
		if s.Status == driver.Completed && c.lastStatus != driver.Completed {
			c.count++
		}
	}
	c.lastDir = s.Direction
	c.lastStatus = s.Status
	c.seen = true
}

func (c *Cycles) Value() float64 { return float64(c.count) }

func (c *Cycles) Reset() { *c = Cycles{} }
