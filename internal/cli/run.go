package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <instruction>",
	Short: "Run a single instruction through the agent",
	Long: `Send one natural language instruction to the agent and print the
execution events and final result. Exits non-zero when the run fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	app, err := newConsoleApp()
	if err != nil {
		return err
	}
	defer app.close()

	instruction := strings.Join(args, " ")

	started := time.Now()
	fmt.Println("  ── Execution events ─────────────────────────────────────")
	result := app.agent.Run(cmd.Context(), instruction)
	fmt.Println("  ─────────────────────────────────────────────────────────")
	app.metrics.ObserveRun(result.Success, time.Since(started))

	printResult(result)
	if !result.Success {
		return fmt.Errorf("instruction failed: %s", result.Error)
	}
	return nil
}
