package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/dissolve/internal/curve"
	"github.com/san-kum/dissolve/internal/driver"
	"github.com/san-kum/dissolve/internal/phase"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt           = 1.0 / 60
	DefaultDuration     = 10.0
	DefaultActive       = 4.0
	DefaultPause        = 0.5
	DefaultMaxIntensity = 1.0
)

var (
	// ErrAmbiguousCurve indicates a curve block naming more than one source.
	ErrAmbiguousCurve = errors.New("config: curve must set only one of preset, ease, keys")

	// ErrUnknownPreset indicates an unknown curve preset name.
	ErrUnknownPreset = errors.New("config: unknown curve preset")

	// ErrInvalidSim indicates a non-positive replay timestep or duration.
	ErrInvalidSim = errors.New("config: sim dt and duration must be positive")
)

type Config struct {
	Name      string           `yaml:"name"`
	Cycle     CycleConfig      `yaml:"cycle"`
	Curve     CurveConfig      `yaml:"curve"`
	Secondary *SecondaryConfig `yaml:"secondary,omitempty"`
	Parameter string           `yaml:"parameter"`
	Debug     bool             `yaml:"debug"`
	Sim       SimConfig        `yaml:"sim"`
	Triggers  []string         `yaml:"triggers,omitempty"`
	Script    string           `yaml:"script,omitempty"`
}

type CycleConfig struct {
	ActiveDuration float64 `yaml:"active_duration"`
	PauseAtStart   float64 `yaml:"pause_at_start"`
	PauseAtEnd     float64 `yaml:"pause_at_end"`
	StartDelay     float64 `yaml:"start_delay"`
	Looping        bool    `yaml:"looping"`
}

// CurveConfig selects a response curve. At most one field may be set; an
// empty block means ease_in_out.
type CurveConfig struct {
	Preset string      `yaml:"preset,omitempty"`
	Ease   string      `yaml:"ease,omitempty"`
	Keys   []KeyConfig `yaml:"keys,omitempty"`
}

type KeyConfig struct {
	Time  float64 `yaml:"time"`
	Value float64 `yaml:"value"`
	In    float64 `yaml:"in"`
	Out   float64 `yaml:"out"`
}

// SecondaryConfig drives a light-like output. A zero MaxIntensity means
// DefaultMaxIntensity.
type SecondaryConfig struct {
	Curve        CurveConfig `yaml:"curve"`
	MaxIntensity float64     `yaml:"max_intensity"`
}

// SimConfig controls offline replays.
type SimConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "default",
		Cycle: CycleConfig{
			ActiveDuration: DefaultActive,
			PauseAtStart:   DefaultPause,
			PauseAtEnd:     DefaultPause,
			Looping:        true,
		},
		Curve:     CurveConfig{Preset: "ease_in_out"},
		Parameter: driver.DefaultParameter,
		Sim: SimConfig{
			Dt:       DefaultDt,
			Duration: DefaultDuration,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes yaml over DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := c.DriverConfig(); err != nil {
		return err
	}
	if !(c.Sim.Dt > 0) || !(c.Sim.Duration > 0) {
		return fmt.Errorf("%w: dt=%g duration=%g", ErrInvalidSim, c.Sim.Dt, c.Sim.Duration)
	}
	return nil
}

func (c *Config) PhaseConfig() phase.Config {
	return phase.Config{
		ActiveDuration: c.Cycle.ActiveDuration,
		PauseAtStart:   c.Cycle.PauseAtStart,
		PauseAtEnd:     c.Cycle.PauseAtEnd,
		StartDelay:     c.Cycle.StartDelay,
		Looping:        c.Cycle.Looping,
	}
}

// ParameterName is the parameter the driver writes, with the default applied.
func (c *Config) ParameterName() string {
	if c.Parameter == "" {
		return driver.DefaultParameter
	}
	return c.Parameter
}

// DriverConfig builds and validates the runtime driver configuration.
func (c *Config) DriverConfig() (driver.Config, error) {
	primary, err := c.Curve.Build()
	if err != nil {
		return driver.Config{}, fmt.Errorf("curve: %w", err)
	}
	dc := driver.Config{
		Cycle:     c.PhaseConfig(),
		Curve:     primary,
		Parameter: c.ParameterName(),
		Debug:     c.Debug,
	}
	if c.Secondary != nil {
		sc, err := c.Secondary.Curve.Build()
		if err != nil {
			return driver.Config{}, fmt.Errorf("secondary curve: %w", err)
		}
		scale := c.Secondary.MaxIntensity
		if scale == 0 {
			scale = DefaultMaxIntensity
		}
		dc.Secondary = &driver.Secondary{Curve: sc, MaxIntensity: scale}
	}
	if err := dc.Validate(); err != nil {
		return driver.Config{}, err
	}
	return dc, nil
}

func (cc CurveConfig) Build() (curve.Curve, error) {
	set := 0
	if cc.Preset != "" {
		set++
	}
	if cc.Ease != "" {
		set++
	}
	if len(cc.Keys) > 0 {
		set++
	}
	if set > 1 {
		return nil, ErrAmbiguousCurve
	}

	switch {
	case len(cc.Keys) > 0:
		keys := make([]curve.Keyframe, len(cc.Keys))
		for i, k := range cc.Keys {
			keys[i] = curve.Keyframe{Time: k.Time, Value: k.Value, In: k.In, Out: k.Out}
		}
		return curve.NewKeyframes(keys...)
	case cc.Ease != "":
		return curve.Ease(cc.Ease)
	}

	switch cc.Preset {
	case "", "ease_in_out":
		return curve.EaseInOut(), nil
	case "linear":
		return curve.Linear(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, cc.Preset)
	}
}
