package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "subsim",
	Short: "Submarine sonar and combat simulation toolkit",
	Long:  "Subsim runs passive/active sonar scenarios with AI contacts and torpedo guidance, and replays recorded sonar logs.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
}
