package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/dissolve/internal/config"
	"github.com/san-kum/dissolve/internal/driver"
	"github.com/san-kum/dissolve/internal/metrics"
	"github.com/san-kum/dissolve/internal/script"
	"github.com/san-kum/dissolve/internal/sim"
	"github.com/san-kum/dissolve/internal/sink"
	"github.com/san-kum/dissolve/internal/storage"
	"github.com/san-kum/dissolve/internal/viz"
	"github.com/san-kum/dissolve/internal/watch"
	"github.com/spf13/cobra"
)

const appName = "dissolve"

// resolveConfig layers preset, config file and explicitly set flags, in that
// order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.OpenLibrary(appName).Load(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (built-in: %v)", err, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Sim.Duration = duration
	}
	if flags.Changed("active") {
		cfg.Cycle.ActiveDuration = active
	}
	if flags.Changed("pause-start") {
		cfg.Cycle.PauseAtStart = pauseStart
	}
	if flags.Changed("pause-end") {
		cfg.Cycle.PauseAtEnd = pauseEnd
	}
	if flags.Changed("delay") {
		cfg.Cycle.StartDelay = startDelay
	}
	if flags.Changed("loop") {
		cfg.Cycle.Looping = looping
	}
	if flags.Changed("curve") {
		cfg.Curve = curveConfig(curveName)
	}
	if flags.Changed("param") {
		cfg.Parameter = parameter
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("trigger") {
		cfg.Triggers = triggers
	}
	if flags.Changed("script") {
		cfg.Script = scriptFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// curveConfig maps a name to a curve preset when one exists and to an easing
// otherwise.
func curveConfig(name string) config.CurveConfig {
	if _, err := (config.CurveConfig{Preset: name}).Build(); err == nil {
		return config.CurveConfig{Preset: name}
	}
	return config.CurveConfig{Ease: name}
}

// buildRunner wires a driver, its triggers and the default metrics. With no
// triggers configured the cycle starts at t=0.
func buildRunner(cfg *config.Config, params driver.ParameterSink, light driver.IntensitySink) (*sim.Runner, error) {
	dc, err := cfg.DriverConfig()
	if err != nil {
		return nil, err
	}
	drv, err := driver.NewWithConfig(dc, params, light)
	if err != nil {
		return nil, err
	}

	sched, err := sim.ParseSchedule(cfg.Triggers)
	if err != nil {
		return nil, err
	}
	if len(cfg.Triggers) == 0 && cfg.Script == "" {
		sched = sim.NewSchedule(sim.Event{At: 0, Kind: sim.EventStart})
	}
	r := sim.New(drv, sched)

	if cfg.Script != "" {
		tr, err := script.Load(cfg.Script)
		if err != nil {
			return nil, err
		}
		r.AddTrigger(tr)
	}

	for _, m := range metrics.Default() {
		r.AddMetric(m)
	}
	return r, nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	declared := materialKeys
	if len(declared) == 0 {
		declared = []string{cfg.ParameterName()}
	}
	r, err := buildRunner(cfg, sink.NewMaterial(declared...), &sink.Light{})
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s...\n", cfg.Name)
	start := time.Now()

	result, err := r.Run(context.Background(), sim.Config{Dt: cfg.Sim.Dt, Duration: cfg.Sim.Duration})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if len(result.Errors) > 0 {
		fmt.Printf("trigger errors: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  %v\n", e)
		}
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// log output would tear the terminal view
	driver.SetLogger(nil)
	script.SetLogger(nil)

	r, err := buildRunner(cfg, sink.NewMaterial(cfg.ParameterName()), &sink.Light{})
	if err != nil {
		return err
	}

	var updates <-chan watch.Update
	if watchConfig {
		if configFile == "" {
			return fmt.Errorf("--watch requires --config")
		}
		w, err := watch.New(configFile)
		if err != nil {
			return err
		}
		defer w.Close()
		updates = w.Updates
	}

	p := tea.NewProgram(viz.NewModel(r, cfg, updates))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// runBatch replays several presets concurrently and stores each run.
func runBatch(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}

	lib := config.OpenLibrary(appName)
	cfgs := make([]*config.Config, len(names))
	jobs := make([]sim.Job, len(names))
	for i, name := range names {
		cfg, err := lib.Load(name)
		if err != nil {
			return err
		}
		cfgs[i] = cfg
		jobs[i] = sim.Job{
			Name: name,
			Build: func() (*sim.Runner, error) {
				return buildRunner(cfg, sink.NewMaterial(cfg.ParameterName()), &sink.Light{})
			},
			Config: sim.Config{Dt: cfg.Sim.Dt, Duration: cfg.Sim.Duration},
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %d presets...\n", len(jobs))
	start := time.Now()

	results, err := sim.RunBatch(context.Background(), jobs)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))
	for i, result := range results {
		runID, err := st.Save(cfgs[i], result)
		if err != nil {
			return err
		}
		fmt.Printf("  %-10s %s  peak=%.3f cycles=%.0f\n", names[i], runID, result.Metrics["peak"], result.Metrics["cycles"])
	}
	return nil
}
