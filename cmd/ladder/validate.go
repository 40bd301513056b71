package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ladderlab-xyz/go-ladder/ladder/notation"
	"github.com/ladderlab-xyz/go-ladder/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] program_file",
	Short: "Check a program's structure, optionally with a bounded simulation run.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		prog, err := notation.Parse(readSource(args[0]))
		if err != nil {
			log.Fatalf("parse failed: %v", err)
		}

		v := validation.NewValidator(prog)
		var result *validation.Result
		if ticks := getInt(cmd, "run"); ticks > 0 {
			result = v.ValidateWithRun(ticks)
		} else {
			result = v.Validate()
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(out))

		if !result.Valid {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Int("run", 0, "also simulate this many scan cycles")
}
