package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dissolve/internal/analysis"
	"github.com/san-kum/dissolve/internal/storage"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tACTIVE\tMODE\tPEAK")

	for _, run := range runs {
		mode := "one-shot"
		if run.Looping {
			mode = "loop"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%.2fs\t%s\t%.3f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.ActiveDuration,
			mode,
			run.Metrics["peak"],
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []storage.Record, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	records, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, records, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(records))

	primary := make([]float64, len(records))
	secondary := make([]float64, len(records))
	for i, r := range records {
		primary[i] = r.Primary
		secondary[i] = r.Secondary
	}

	graph := asciigraph.Plot(primary,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Caption("dissolve amount vs time"),
	)
	fmt.Println(graph)
	fmt.Println()

	if meta.Secondary {
		graph = asciigraph.Plot(secondary,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.LowerBound(0),
			asciigraph.Caption("light intensity vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, records)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, records, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, records)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args[0])
	if err != nil {
		return err
	}

	yMax := 1.0
	for _, r := range records {
		if r.Secondary > yMax {
			yMax = r.Secondary
		}
	}
	svg := storage.TraceToSVG(storage.RecordTraces(records, meta.Secondary), []string{"#00ff88", "#ffaa00"}, 800, 300, yMax)

	path := outFile
	if path == "" {
		path = meta.ID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("name: %s\n\n", meta.Name)

	times := make([]float64, len(records))
	phases := make([]string, len(records))
	primary := make([]float64, len(records))
	for i, r := range records {
		times[i] = r.Time
		phases[i] = r.Phase
		primary[i] = r.Primary
	}

	ps := analysis.PowerSpectrum(primary)
	plotData := ps
	if len(ps) > 8 {
		plotData = ps[:len(ps)/4]
	}
	if len(plotData) > 1 {
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (dissolve amount)"),
		))
		fmt.Println()
	}

	if period, err := analysis.DominantPeriod(primary, meta.Dt); err == nil {
		fmt.Printf("dominant period: %.3f s\n", period)
		if meta.Looping {
			fmt.Printf("configured cycle: %.3f s\n", meta.ActiveDuration+meta.PauseAtStart+meta.PauseAtEnd)
		}
	} else {
		fmt.Println("dominant period: none")
	}

	fmt.Println("\ntime per phase:")
	totals := analysis.TotalByPhase(analysis.Segments(times, phases))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, p := range []string{"pause_start", "transitioning", "pause_end"} {
		fmt.Fprintf(w, "  %s\t%.3fs\n", p, totals[p])
	}
	return w.Flush()
}
