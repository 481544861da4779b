package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"subsim/internal/admin"
	"subsim/internal/config"
	"subsim/internal/logging"
	"subsim/internal/scenario"
	"subsim/internal/sim"
)

var (
	simPrintOnly    bool
	simTUI          bool
	simDebug        bool
	simConfigPath   string
	simSchemaPath   string
	simScenarioPath string
	simTick         time.Duration
	simLogFile      string
	simAdminAddr    string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a real-time sonar scenario",
	Long:  "simulate starts a scenario emitting per-beam sonar rows, contact tracks and combat events.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		scn, err := scenario.Load(simScenarioPath)
		if err != nil {
			return err
		}

		log := logging.New(simDebug)
		ctx := logging.NewContext(context.Background(), log)
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		sw, tw, ew, cleanup, err := newWriters(simPrintOnly, simTUI, simLogFile, scn.Name)
		if err != nil {
			return err
		}
		defer cleanup()

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		simulator := sim.NewSimulator(scn, cfg, sw, tw, ew, tickInterval)

		if simAdminAddr != "" {
			srv := admin.NewServer(simulator)
			go func() {
				log.Info("admin API listening", "addr", simAdminAddr)
				if err := srv.Start(ctx, simAdminAddr); err != nil && err != http.ErrServerClosed {
					log.Error("admin server failed", "error", err)
				}
			}()
		}

		go simulator.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		log.Info("simulation stopped", "scenario", scn.Name)
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render a live terminal UI (requires a terminal)")
	simulateCmd.Flags().BoolVar(&simDebug, "debug", false, "Enable debug logging")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().StringVar(&simScenarioPath, "scenario", "scenarios/convoy.yaml", "Path to scenario YAML")
	simulateCmd.Flags().DurationVar(&simTick, "tick", time.Second, "Simulation tick interval (e.g. 500ms, 2s)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export sonar/track/event logs (JSONL)")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", "", "Serve the JSON control API on this address (e.g. :8080)")
}
