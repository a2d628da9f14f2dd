package main

import (
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dissolve/internal/config"
	"github.com/san-kum/dissolve/internal/curve"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func presetsCommand() *cobra.Command {
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "manage configuration presets",
	}

	presetsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "list built-in and saved presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("built-in:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}

			lib := config.OpenLibrary(appName)
			saved, err := lib.List()
			if err != nil {
				return err
			}
			fmt.Println("saved:")
			if len(saved) == 0 {
				fmt.Println("  (none)")
			}
			for _, p := range saved {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	})

	presetsCmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "print a preset as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.OpenLibrary(appName).Load(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	})

	var from string
	saveCmd := &cobra.Command{
		Use:   "save [name]",
		Short: "save a config file as a named preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(from)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			lib := config.OpenLibrary(appName)
			if err := lib.Save(args[0], cfg); err != nil {
				return err
			}
			if !lib.Persistent() {
				fmt.Println("warning: preset storage unavailable, preset not persisted")
				return nil
			}
			fmt.Printf("saved preset %s\n", args[0])
			return nil
		},
	}
	saveCmd.Flags().StringVar(&from, "config", "", "config file to save (yaml)")
	_ = saveCmd.MarkFlagRequired("config")
	presetsCmd.AddCommand(saveCmd)

	return presetsCmd
}

func curvesCommand() *cobra.Command {
	curvesCmd := &cobra.Command{
		Use:   "curves [name]",
		Short: "list curve names, or plot one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Println("presets:")
				fmt.Println("  ease_in_out")
				fmt.Println("  linear")
				fmt.Println("easings:")
				for _, name := range curve.EaseNames() {
					fmt.Printf("  %s\n", name)
				}
				return nil
			}

			c, err := curveConfig(args[0]).Build()
			if err != nil {
				return err
			}
			if samples < 2 {
				return fmt.Errorf("samples must be at least 2, got %d", samples)
			}
			data := make([]float64, samples)
			for i := range data {
				data[i] = c.Evaluate(float64(i) / float64(samples-1))
			}
			fmt.Println(asciigraph.Plot(data,
				asciigraph.Height(12),
				asciigraph.Width(60),
				asciigraph.Caption(args[0]),
			))
			return nil
		},
	}
	curvesCmd.Flags().IntVar(&samples, "samples", 61, "samples across [0,1]")
	return curvesCmd
}
