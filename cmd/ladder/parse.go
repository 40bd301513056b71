package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ladderlab-xyz/go-ladder/ladder/notation"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] program_file",
	Short: "Parse ladder notation into the program model.",
	Long: `Parse ladder notation into the program model. Prints the model as
JSON, or regenerates canonical notation with --regen. Use "-" to read stdin.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		prog, err := notation.Parse(readSource(args[0]))
		if err != nil {
			log.Fatalf("parse failed: %v", err)
		}
		log.Debugf("parsed %d networks, %d mappings", len(prog.Networks), len(prog.IOMappings))

		if getFlag(cmd, "regen") {
			fmt.Print(notation.Generate(prog))
			return
		}

		out, err := json.MarshalIndent(prog, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Bool("regen", false, "emit canonical notation instead of JSON")
}
