package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir      string
	dt           float64
	duration     float64
	active       float64
	pauseStart   float64
	pauseEnd     float64
	startDelay   float64
	looping      bool
	curveName    string
	parameter    string
	debug        bool
	triggers     []string
	scriptFile   string
	configFile   string
	preset       string
	materialKeys []string
	watchConfig  bool
	outFile      string
	samples      int
)

// main registers the dissolve commands and executes the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "dissolve",
		Short: "phased dissolve value driver",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dissolve", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "replay a dissolve cycle and store the result",
		Args:  cobra.NoArgs,
		RunE:  runReplay,
	}
	addDriverFlags(runCmd)
	runCmd.Flags().StringSliceVar(&materialKeys, "material-params", nil, "parameters the target material declares (default: the driven parameter)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "drive a dissolve in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addDriverFlags(liveCmd)
	liveCmd.Flags().BoolVar(&watchConfig, "watch", false, "reload --config when it changes")

	batchCmd := &cobra.Command{
		Use:   "batch [preset...]",
		Short: "replay presets concurrently (all built-ins by default)",
		RunE:  runBatch,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run outputs",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and phase analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run outputs as an SVG trace",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")

	rootCmd.AddCommand(runCmd, liveCmd, batchCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCommand(), curvesCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addDriverFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in or saved preset")
	cmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 10.0, "duration")
	cmd.Flags().Float64Var(&active, "active", 4.0, "active (transition) duration")
	cmd.Flags().Float64Var(&pauseStart, "pause-start", 0.5, "pause at progress 0")
	cmd.Flags().Float64Var(&pauseEnd, "pause-end", 0.5, "pause at progress 1")
	cmd.Flags().Float64Var(&startDelay, "delay", 0, "delay before the cycle starts")
	cmd.Flags().BoolVar(&looping, "loop", true, "loop the cycle instead of a one-shot ramp")
	cmd.Flags().StringVar(&curveName, "curve", "", "curve preset or easing name (see 'curves')")
	cmd.Flags().StringVar(&parameter, "param", "", "material parameter to drive")
	cmd.Flags().BoolVar(&debug, "debug", false, "log every pushed value")
	cmd.Flags().StringArrayVar(&triggers, "trigger", nil, "timed trigger: start@T, reset@T or set@T=V (repeatable)")
	cmd.Flags().StringVar(&scriptFile, "script", "", "tengo trigger script")
}
