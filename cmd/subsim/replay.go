package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subsim/internal/sim"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded sonar log file",
	Long:  "replay feeds sonar rows from a JSONL log file back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer, cleanup, err := newSonarWriter(replayPrintOnly)
		if err != nil {
			return err
		}
		defer cleanup()
		return sim.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to sonar log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	replayCmd.MarkFlagRequired("input")
}
