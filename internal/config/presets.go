package config

import "sort"

var Presets = map[string]*Config{
	"demo": {
		Name:      "demo",
		Cycle:     CycleConfig{ActiveDuration: 4, PauseAtStart: 0.5, PauseAtEnd: 0.5, Looping: true},
		Curve:     CurveConfig{Preset: "ease_in_out"},
		Parameter: "_Dissolution_Amount",
		Sim:       SimConfig{Dt: DefaultDt, Duration: 10},
	},
	"upgrade": {
		Name:      "upgrade",
		Cycle:     CycleConfig{ActiveDuration: 3, StartDelay: 0.5},
		Curve:     CurveConfig{Preset: "ease_in_out"},
		Parameter: "_Dissolution_Amount",
		Sim:       SimConfig{Dt: DefaultDt, Duration: 5},
		Triggers:  []string{"start@0"},
	},
	"burn": {
		Name:  "burn",
		Cycle: CycleConfig{ActiveDuration: 3, PauseAtStart: 0.25, PauseAtEnd: 0.25, Looping: true},
		Curve: CurveConfig{Ease: "InOutQuad"},
		Secondary: &SecondaryConfig{
			Curve:        CurveConfig{Keys: []KeyConfig{{Time: 0, Value: 0}, {Time: 0.5, Value: 1}, {Time: 1, Value: 0}}},
			MaxIntensity: 3,
		},
		Parameter: "_Dissolution_Amount",
		Sim:       SimConfig{Dt: DefaultDt, Duration: 7},
	},
	"pulse": {
		Name:      "pulse",
		Cycle:     CycleConfig{ActiveDuration: 2, Looping: true},
		Curve:     CurveConfig{Preset: "linear"},
		Parameter: "_Dissolution_Amount",
		Sim:       SimConfig{Dt: DefaultDt, Duration: 6},
	},
	"flash": {
		Name:  "flash",
		Cycle: CycleConfig{ActiveDuration: 1},
		Curve: CurveConfig{Ease: "OutExpo"},
		Secondary: &SecondaryConfig{
			Curve:        CurveConfig{Ease: "OutSine"},
			MaxIntensity: 5,
		},
		Parameter: "_Dissolution_Amount",
		Sim:       SimConfig{Dt: DefaultDt, Duration: 2},
		Triggers:  []string{"start@0.2"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Curve.Keys = append([]KeyConfig(nil), p.Curve.Keys...)
	if p.Secondary != nil {
		sec := *p.Secondary
		sec.Curve.Keys = append([]KeyConfig(nil), p.Secondary.Curve.Keys...)
		cfg.Secondary = &sec
	}
	cfg.Triggers = append([]string(nil), p.Triggers...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
