package sim

import (
	"fmt"

	"github.com/san-kum/dissolve/internal/driver"
	"github.com/san-kum/dissolve/internal/phase"
)

// Sample is the driver's observable output at one step.
type Sample struct {
	Time      float64
	Progress  float64
	Primary   float64
	Secondary float64
	Phase     phase.Phase
	Direction phase.Direction
	Status    driver.Status
}

// Trigger invokes driver operations when the replay clock reaches them.
type Trigger interface {
	Fire(t float64, d *driver.Driver) error
	Rewind()
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Config struct {
	Dt       float64
	Duration float64
}

func DefaultConfig() Config {
	return Config{Dt: 1.0 / 60, Duration: 10}
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	Errors     []error
	StepsTaken int
}

// Column returns one field of every sample, for plotting.
func (r *Result) Column(f func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = f(s)
	}
	return out
}

// StepError records a trigger failure without stopping the run.
type StepError struct {
	Time    float64
	Step    int
	Wrapped error
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e StepError) Unwrap() error {
	return e.Wrapped
}
