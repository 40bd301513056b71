package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ladderlab-xyz/go-ladder/ladder/notation"
	"github.com/ladderlab-xyz/go-ladder/plotter"
	"github.com/ladderlab-xyz/go-ladder/sim"
	"github.com/ladderlab-xyz/go-ladder/trace"
)

var plotCmd = &cobra.Command{
	Use:   "plot [flags] program_file",
	Short: "Simulate a program and plot its signal traces as SVG.",
	Long: `Simulate a program for a number of scan cycles and render the
recorded signals as an SVG timing plot. Digital signals draw as step traces,
analog signals as lines. --signal selects specific addresses (repeatable);
the default plots every output and memory signal.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		prog, err := notation.Parse(readSource(args[0]))
		if err != nil {
			log.Fatalf("parse failed: %v", err)
		}

		engine := sim.New(prog)
		presets, err := cmd.Flags().GetStringArray("set")
		if err != nil {
			log.Fatal(err)
		}
		applyPresets(engine, presets)

		ticks := getInt(cmd, "ticks")
		records := make([]trace.Record, 0, ticks)
		engine.Start()
		for i := 0; i < ticks; i++ {
			engine.Tick()
			records = append(records, trace.Observe("", engine.State()))
		}
		engine.Stop()

		signals, err := cmd.Flags().GetStringArray("signal")
		if err != nil {
			log.Fatal(err)
		}
		if len(signals) == 0 {
			signals = nil
		}

		title := getString(cmd, "title")
		if title == "" {
			title = args[0]
		}
		svg, err := plotter.PlotTrace(records, signals,
			float64(getInt(cmd, "width")), float64(getInt(cmd, "height")), title)
		if err != nil {
			log.Fatalf("plotting: %v", err)
		}

		output := getString(cmd, "output")
		if output == "" || output == "-" {
			fmt.Println(svg)
			return
		}
		if err := os.WriteFile(output, []byte(svg), 0o644); err != nil {
			log.Fatalf("writing %s: %v", output, err)
		}
		log.Infof("wrote %s (%d cycles)", output, len(records))
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().Int("ticks", 100, "number of scan cycles to simulate")
	plotCmd.Flags().StringArray("set", nil, "preset an input, e.g. I0.0=1 or AI0.0=42.5")
	plotCmd.Flags().StringArray("signal", nil, "signal address to plot (repeatable, default all)")
	plotCmd.Flags().String("output", "", "output SVG file (default stdout)")
	plotCmd.Flags().String("title", "", "plot title (default program file name)")
	plotCmd.Flags().Int("width", 800, "plot width in pixels")
	plotCmd.Flags().Int("height", 600, "plot height in pixels")
}
