package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const banner = `
╔══════════════════════════════════════════════════════════════╗
║              Orin — Interactive Agent Console                ║
╠══════════════════════════════════════════════════════════════╣
║  Commands:                                                   ║
║    tools           list available tools                      ║
║    quit / exit     leave the console                         ║
║    anything else   sent to the agent as an instruction       ║
╚══════════════════════════════════════════════════════════════╝
`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive agent console",
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	app, err := newConsoleApp()
	if err != nil {
		return err
	}
	defer app.close()

	fmt.Print(banner + "\n")
	fmt.Printf("  Provider : %s (%s)\n", app.cfg.Provider.Name, app.cfg.Provider.Model)
	fmt.Printf("  Tools    : %d registered\n\n", app.registry.Len())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You › ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye.")
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit":
			fmt.Println("Goodbye.")
			return nil
		case "tools":
			fmt.Println("\n  Registered tools:")
			for _, name := range app.registry.ListNames() {
				fmt.Printf("    • %s\n", name)
			}
			fmt.Println()
			continue
		}

		started := time.Now()
		fmt.Println()
		fmt.Println("  ── Execution events ─────────────────────────────────────")
		result := app.agent.Run(cmd.Context(), line)
		fmt.Println("  ─────────────────────────────────────────────────────────")
		app.metrics.ObserveRun(result.Success, time.Since(started))

		printResult(result)
		fmt.Println()
	}
}
