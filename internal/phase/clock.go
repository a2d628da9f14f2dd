// Package phase converts elapsed time into progress through a dissolve cycle.
//
// A looping cycle is split into two halves by wall-clock proportion. The first
// half holds at 0 for the start pause and then ramps forward; the second half
// holds at 1 for the end pause and then ramps back. A one-shot cycle ramps
// once from 0 to 1 over the active duration and reports completion.
package phase

import "math"

// Phase is the sub-phase of the cycle a sample falls in.
type Phase int

const (
	PauseStart Phase = iota
	Transitioning
	PauseEnd
)

func (p Phase) String() string {
	switch p {
	case PauseStart:
		return "pause_start"
	case Transitioning:
		return "transitioning"
	case PauseEnd:
		return "pause_end"
	default:
		return "unknown"
	}
}

// Direction is the ramp direction: forward dissolves, reverse materializes.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Config describes one cycle. Durations are in seconds.
type Config struct {
	ActiveDuration float64
	PauseAtStart   float64
	PauseAtEnd     float64
	StartDelay     float64
	Looping        bool
}

// Total is the full looping cycle length.
func (c Config) Total() float64 {
	return c.ActiveDuration + c.PauseAtStart + c.PauseAtEnd
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if !(c.ActiveDuration > 0) || math.IsInf(c.ActiveDuration, 0) {
		return &ConfigError{Field: "active_duration", Value: c.ActiveDuration, Err: ErrInvalidDuration}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"pause_at_start", c.PauseAtStart},
		{"pause_at_end", c.PauseAtEnd},
		{"start_delay", c.StartDelay},
	} {
		if !(f.v >= 0) || math.IsInf(f.v, 0) {
			return &ConfigError{Field: f.name, Value: f.v, Err: ErrNegativePause}
		}
	}
	if c.Looping && !(c.Total() > 0) {
		return &ConfigError{Field: "cycle_length", Value: c.Total(), Err: ErrInvalidDuration}
	}
	return nil
}

// State is the clock's mutable part. Elapsed is negative while the start
// delay runs.
type State struct {
	Elapsed float64
}

// Sample is the clock output for one advance.
//
// Progress is the position to evaluate the response curve at; in the reverse
// half it is already complemented. Local is the uncomplemented ramp position
// within the current transition.
type Sample struct {
	Progress  float64
	Local     float64
	Phase     Phase
	Direction Direction
	Delayed   bool
	Completed bool
}

// Clock advances a State under a fixed Config. The zero value is not usable;
// build one with NewClock.
type Clock struct {
	cfg Config
}

// NewClock validates cfg.
func NewClock(cfg Config) (*Clock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Clock{cfg: cfg}, nil
}

func (c *Clock) Config() Config { return c.cfg }

// Advance adds dt to the elapsed time and samples the cycle. Negative and
// NaN dt advance by zero.
func (c *Clock) Advance(s State, dt float64) (State, Sample) {
	if !(dt > 0) {
		dt = 0
	}
	s.Elapsed += dt
	return s, c.At(s.Elapsed)
}

// At samples the cycle at an absolute elapsed time without mutating anything.
func (c *Clock) At(elapsed float64) Sample {
	if elapsed < 0 {
		return Sample{Phase: PauseStart, Direction: Forward, Delayed: true}
	}
	if c.cfg.Looping {
		return c.looping(elapsed)
	}
	return c.oneShot(elapsed)
}

func (c *Clock) oneShot(elapsed float64) Sample {
	t := clamp01(elapsed / c.cfg.ActiveDuration)
	if t >= 1 {
		return Sample{Progress: 1, Local: 1, Phase: PauseEnd, Direction: Forward, Completed: true}
	}
	return Sample{Progress: t, Local: t, Phase: Transitioning, Direction: Forward}
}

func (c *Clock) looping(elapsed float64) Sample {
	total := c.cfg.Total()
	normalized := math.Mod(elapsed, total)
	if normalized < 0 {
		normalized += total
	}
	normalized /= total

	if normalized < 0.5 {
		half := c.cfg.ActiveDuration/2 + c.cfg.PauseAtStart
		local := normalized * total / half
		boundary := c.cfg.PauseAtStart / half
		if local <= boundary {
			return Sample{Progress: 0, Phase: PauseStart, Direction: Forward}
		}
		t := clamp01((local - boundary) / (1 - boundary))
		return Sample{Progress: t, Local: t, Phase: Transitioning, Direction: Forward}
	}

	half := c.cfg.ActiveDuration/2 + c.cfg.PauseAtEnd
	local := (normalized - 0.5) * total / half
	boundary := c.cfg.PauseAtEnd / half
	if local <= boundary {
		return Sample{Progress: 1, Phase: PauseEnd, Direction: Reverse}
	}
	t := clamp01((local - boundary) / (1 - boundary))
	return Sample{Progress: 1 - t, Local: t, Phase: Transitioning, Direction: Reverse}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
