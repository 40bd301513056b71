package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ladderlab-xyz/go-ladder/fieldbus"
	"github.com/ladderlab-xyz/go-ladder/ladder/notation"
)

var registersCmd = &cobra.Command{
	Use:   "registers [flags] program_file",
	Short: "Export the fieldbus register assignments of a program.",
	Long: `Export the deterministic fieldbus register table of a program: which
discrete input, coil, input register, or holding register each mapped address
lands on. Useful as configuration for a bus server polling the simulator.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		prog, err := notation.Parse(readSource(args[0]))
		if err != nil {
			log.Fatalf("parse failed: %v", err)
		}

		assignments := fieldbus.Assignments(prog)
		out, err := json.MarshalIndent(assignments, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(registersCmd)
}
