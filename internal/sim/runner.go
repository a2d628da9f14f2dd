package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/dissolve/internal/driver"
)

// Runner replays a driver at a fixed timestep. Each step ticks the driver,
// fires triggers due at the new time, and records a sample.
type Runner struct {
	drv       *driver.Driver
	triggers  []Trigger
	metrics   []Metric
	observers []Observer
}

func New(drv *driver.Driver, triggers ...Trigger) *Runner {
	return &Runner{
		drv:       drv,
		triggers:  triggers,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddTrigger(t Trigger)   { r.triggers = append(r.triggers, t) }
func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Driver() *driver.Driver { return r.drv }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := stepCount(cfg)
	result := &Result{
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}
	for _, tr := range r.triggers {
		tr.Rewind()
	}

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		s, errs := r.step(i, t, cfg.Dt)
		result.Errors = append(result.Errors, errs...)
		result.Samples = append(result.Samples, s)
		if i > 0 {
			result.StepsTaken++
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps like Run without collecting samples. Returning false
// from callback stops the run early.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(Sample) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	for _, tr := range r.triggers {
		tr.Rewind()
	}

	steps := stepCount(cfg)
	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s, errs := r.step(i, float64(i)*cfg.Dt, cfg.Dt)
		if len(errs) > 0 {
			return errs[0]
		}
		if !callback(s) {
			return nil
		}
	}
	return nil
}

// Step advances the driver once outside of a run, for interactive hosts.
func (r *Runner) Step(t, dt float64) (Sample, []error) {
	return r.step(-1, t, dt)
}

func (r *Runner) step(i int, t, dt float64) (Sample, []error) {
	if i != 0 {
		r.drv.Tick(dt)
	}

	var errs []error
	for _, tr := range r.triggers {
		if err := tr.Fire(t, r.drv); err != nil {
			errs = append(errs, StepError{Time: t, Step: i, Wrapped: err})
		}
	}

	s := Capture(t, r.drv)
	for _, m := range r.metrics {
		m.Observe(s)
	}
	for _, obs := range r.observers {
		obs.OnStep(s)
	}
	return s, errs
}

// Capture reads a sample from the driver's current state.
func Capture(t float64, d *driver.Driver) Sample {
	snap := d.Snapshot()
	return Sample{
		Time:      t,
		Progress:  snap.Sample.Progress,
		Primary:   snap.State.LastOutput,
		Secondary: snap.Secondary,
		Phase:     snap.Sample.Phase,
		Direction: snap.Sample.Direction,
		Status:    snap.Status,
	}
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

func stepCount(cfg Config) int {
	return int(math.Floor(cfg.Duration/cfg.Dt + 1e-9))
}
