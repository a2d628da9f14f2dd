package driver

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/san-kum/dissolve/internal/curve"
	"github.com/san-kum/dissolve/internal/phase"
)

// DefaultParameter is the shader property written when Config.Parameter is empty.
const DefaultParameter = "_Dissolution_Amount"

var logger = log.New(os.Stderr, "dissolve: ", log.LstdFlags)

// SetLogger replaces the package logger. A nil logger discards output.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(discard{}, "", 0)
	}
	logger = l
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Status is the driver's lifecycle state.
type Status int

const (
	Idle Status = iota
	DelayWaiting
	Active
	Completed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case DelayWaiting:
		return "delay"
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Secondary configures a second output driven from the same progress as the
// primary curve and scaled by MaxIntensity.
type Secondary struct {
	Curve        curve.Curve
	MaxIntensity float64
}

type Config struct {
	Cycle     phase.Config
	Curve     curve.Curve
	Secondary *Secondary
	Parameter string
	Debug     bool
}

func (c Config) Validate() error {
	if err := c.Cycle.Validate(); err != nil {
		return err
	}
	if c.Curve == nil {
		return ErrNoCurve
	}
	if c.Secondary != nil {
		if c.Secondary.Curve == nil {
			return ErrNoSecondaryCurve
		}
		if math.IsNaN(c.Secondary.MaxIntensity) || math.IsInf(c.Secondary.MaxIntensity, 0) {
			return fmt.Errorf("%w: %g", ErrInvalidScale, c.Secondary.MaxIntensity)
		}
	}
	return nil
}

func (c Config) parameter() string {
	if c.Parameter == "" {
		return DefaultParameter
	}
	return c.Parameter
}

// State is the per-run mutable state. Elapsed is negative during the start
// delay; LastOutput is the last primary value pushed.
type State struct {
	Elapsed    float64
	Running    bool
	LastOutput float64
}

// Snapshot is a read-only view of a driver after its last operation.
type Snapshot struct {
	State     State
	Status    Status
	Secondary float64
	Sample    phase.Sample
}

// Driver turns ticks into dissolve values and pushes them to its sinks.
// It is not safe for concurrent use; call every method from the loop that
// owns it.
type Driver struct {
	cfg        Config
	clock      *phase.Clock
	params     ParameterSink
	light      IntensitySink
	paramOK    bool
	lightOK    bool
	state      State
	status     Status
	secondary  float64
	lastSample phase.Sample
}

// New returns an idle, unconfigured driver. Either sink may be nil.
func New(params ParameterSink, light IntensitySink) *Driver {
	return &Driver{params: params, light: light}
}

// NewWithConfig is New followed by Configure.
func NewWithConfig(cfg Config, params ParameterSink, light IntensitySink) (*Driver, error) {
	d := New(params, light)
	if err := d.Configure(cfg); err != nil {
		return nil, err
	}
	return d, nil
}

// Configure validates and applies cfg. On error the previous configuration
// stays in effect. Running state and elapsed time are kept so a live edit
// continues from the same point.
func (d *Driver) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	clock, err := phase.NewClock(cfg.Cycle)
	if err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	d.cfg = cfg
	d.clock = clock
	d.checkSinks()
	return nil
}

// checkSinks warns once per configuration about outputs that cannot be applied.
func (d *Driver) checkSinks() {
	name := d.cfg.parameter()
	d.paramOK = d.params != nil
	if c, ok := d.params.(ParameterChecker); ok && d.paramOK {
		d.paramOK = c.HasParameter(name)
	}
	if !d.paramOK {
		logger.Printf("warning: target has no %q parameter; dissolve values will not be applied", name)
	}

	d.lightOK = d.light != nil
	if d.cfg.Secondary != nil && !d.lightOK {
		logger.Printf("warning: secondary curve configured without an intensity target")
	}
}

func (d *Driver) Configured() bool { return d.clock != nil }

func (d *Driver) Config() Config { return d.cfg }

// Start restarts the cycle from the beginning of the start delay.
func (d *Driver) Start() {
	if d.clock == nil {
		logger.Printf("start ignored: driver has no valid configuration")
		return
	}
	d.state.Elapsed = -d.cfg.Cycle.StartDelay
	d.state.Running = true
	if d.state.Elapsed < 0 {
		d.status = DelayWaiting
	} else {
		d.status = Active
	}
}

// Reset stops the cycle and pushes 0 to both outputs.
func (d *Driver) Reset() {
	d.state.Elapsed = 0
	d.state.Running = false
	d.status = Idle
	d.lastSample = phase.Sample{}
	d.push(0, 0)
}

// SetManual pushes the curve value at v, clamped to [0,1], without touching
// the clock or the lifecycle.
func (d *Driver) SetManual(v float64) error {
	if math.IsNaN(v) {
		return ErrNaNInput
	}
	v = clamp01(v)
	if d.cfg.Curve == nil {
		d.push(v, 0)
		return nil
	}
	d.push(d.primaryAt(v), d.secondaryAt(v))
	return nil
}

// Tick advances the clock by dt seconds and applies the resulting values.
// It does nothing unless the driver is running.
func (d *Driver) Tick(dt float64) {
	if !d.state.Running || d.clock == nil {
		return
	}

	var s phase.Sample
	st := phase.State{Elapsed: d.state.Elapsed}
	st, s = d.clock.Advance(st, dt)
	d.state.Elapsed = st.Elapsed
	d.lastSample = s

	if s.Delayed {
		d.status = DelayWaiting
		return
	}
	d.status = Active

	primary := d.primaryAt(s.Progress)
	if d.cfg.Cycle.Looping && s.Phase != phase.Transitioning {
		// looping pauses hold the raw endpoint, not the curve's value there
		primary = s.Progress
	}
	d.push(primary, d.secondaryAt(s.Progress))

	if s.Completed && !d.cfg.Cycle.Looping {
		d.state.Running = false
		d.status = Completed
	}
}

func (d *Driver) primaryAt(progress float64) float64 {
	return clamp01(d.cfg.Curve.Evaluate(progress))
}

func (d *Driver) secondaryAt(progress float64) float64 {
	if d.cfg.Secondary == nil {
		return 0
	}
	return d.cfg.Secondary.Curve.Evaluate(progress) * d.cfg.Secondary.MaxIntensity
}

func (d *Driver) push(primary, secondary float64) {
	d.state.LastOutput = primary
	d.secondary = secondary

	if d.paramWritable() {
		d.params.SetScalarParameter(d.cfg.parameter(), primary)
	}
	if d.lightOK && d.cfg.Secondary != nil {
		d.light.SetIntensity(secondary)
	}
	if d.cfg.Debug {
		logger.Printf("[%.2f] dissolve amount: %.3f", d.state.Elapsed, primary)
	}
}

// paramWritable reports whether the primary sink accepts the parameter. An
// unconfigured driver has not run the capability check yet.
func (d *Driver) paramWritable() bool {
	if d.clock != nil {
		return d.paramOK
	}
	if d.params == nil {
		return false
	}
	if c, ok := d.params.(ParameterChecker); ok {
		return c.HasParameter(d.cfg.parameter())
	}
	return true
}

func (d *Driver) State() State { return d.state }

func (d *Driver) Status() Status { return d.status }

func (d *Driver) Output() float64 { return d.state.LastOutput }

func (d *Driver) SecondaryOutput() float64 { return d.secondary }

func (d *Driver) Snapshot() Snapshot {
	return Snapshot{
		State:     d.state,
		Status:    d.status,
		Secondary: d.secondary,
		Sample:    d.lastSample,
	}
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
