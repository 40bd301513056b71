package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ladderlab-xyz/go-ladder/ladder/notation"
	"github.com/ladderlab-xyz/go-ladder/sim"
	"github.com/ladderlab-xyz/go-ladder/trace"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] program_file",
	Short: "Simulate a program for a number of scan cycles.",
	Long: `Simulate a program for a number of scan cycles and print the final
state snapshot. Inputs can be preset with --set (repeatable, "I0.0=1" or
"AI0.0=42.5"). The scan trace can be streamed to CSV or JSONL, or recorded
as a session in a SQLite store.`,
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
		recorder, session, store := openRecorder(cmd, args[0])
		if recorder != nil {
			defer recorder.Close()
		}
		if store != nil {
			defer store.Close()
		}

		engine.Start()
		for i := 0; i < ticks; i++ {
			engine.Tick()
			if recorder != nil {
				if err := recorder.Write(trace.Observe(session, engine.State())); err != nil {
					log.Fatalf("recording scan: %v", err)
				}
			}
		}
		engine.Stop()

		snap := engine.State()
		if store != nil {
			if err := store.EndSession(session, snap.CycleCount); err != nil {
				log.Fatalf("ending session: %v", err)
			}
			log.Infof("recorded session %s (%d cycles)", session, snap.CycleCount)
		}

		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("ticks", 100, "number of scan cycles to simulate")
	runCmd.Flags().StringArray("set", nil, "preset an input, e.g. I0.0=1 or AI0.0=42.5")
	runCmd.Flags().String("csv", "", "stream the scan trace to a CSV file")
	runCmd.Flags().String("jsonl", "", "stream the scan trace to a JSONL file")
	runCmd.Flags().String("record", "", "record the session into a SQLite store at this path")
}

// applyPresets parses --set values and stages them on the engine. Booleans
// accept 1/0/true/false; anything else is treated as an analog value.
func applyPresets(engine *sim.Engine, presets []string) {
	for _, p := range presets {
		addr, val, ok := strings.Cut(p, "=")
		if !ok {
			log.Fatalf("bad --set value %q; want addr=value", p)
		}
		switch strings.ToLower(val) {
		case "1", "true", "on":
			engine.SetInput(addr, true)
		case "0", "false", "off":
			engine.SetInput(addr, false)
		default:
			var f float64
			if _, err := fmt.Sscanf(val, "%g", &f); err != nil {
				log.Fatalf("bad --set value %q: %v", p, err)
			}
			engine.SetAnalogValue(addr, f)
		}
	}
}

// openRecorder wires up the requested trace sink, if any, and begins a store
// session when recording to SQLite.
func openRecorder(cmd *cobra.Command, programName string) (trace.Recorder, string, *trace.Store) {
	if path := getString(cmd, "csv"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			log.Fatalf("creating %s: %v", path, err)
		}
		return trace.NewCSVRecorder(f), "", nil
	}
	if path := getString(cmd, "jsonl"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			log.Fatalf("creating %s: %v", path, err)
		}
		return trace.NewJSONLRecorder(f), "", nil
	}
	if path := getString(cmd, "record"); path != "" {
		store, err := trace.OpenStore(path)
		if err != nil {
			log.Fatalf("opening store: %v", err)
		}
		session, err := store.BeginSession(programName)
		if err != nil {
			log.Fatalf("beginning session: %v", err)
		}
		return storeRecorder{store}, session, store
	}
	return nil, "", nil
}

// storeRecorder adapts the SQLite store to the Recorder interface.
type storeRecorder struct {
	store *trace.Store
}

func (r storeRecorder) Write(rec trace.Record) error { return r.store.AppendScan(rec) }

func (r storeRecorder) Close() error { return nil }
