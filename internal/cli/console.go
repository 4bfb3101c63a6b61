package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/halim/orin/pkg/executor"
	"github.com/halim/orin/pkg/tool"
)

// ANSI colour codes for terminal readability.
const (
	colourBlue  = "\033[94m"
	colourGreen = "\033[92m"
	colourRed   = "\033[91m"
	colourReset = "\033[0m"
)

func eventColour(t executor.EventType) string {
	switch t {
	case executor.EventStatus:
		return colourGreen
	case executor.EventError:
		return colourRed
	default:
		return colourBlue
	}
}

// consoleEventCallback prints a pipeline event to the terminal. It is the
// local counterpart of the WebSocket broadcast used in serve mode.
func consoleEventCallback(event executor.Event) {
	colour := eventColour(event.Type)
	fmt.Printf("  %s[%-6s]%s stage=%-26s tool=%-20s @ %s\n           └─ %s\n",
		colour, strings.ToUpper(string(event.Type)), colourReset,
		event.Stage, event.Tool,
		event.Timestamp.Format(time.RFC3339),
		event.Message)
}

// printResult pretty-prints the final result after all events have fired.
func printResult(result tool.Result) {
	fmt.Println()
	if result.Success {
		fmt.Println("  ✅  Success")
		fmt.Printf("  Output   : %v\n", result.Output)
		if len(result.Metadata) > 0 {
			fmt.Printf("  Metadata : %v\n", result.Metadata)
		}
	} else {
		fmt.Println("  ❌  Failed")
		fmt.Printf("  Error    : %s\n", result.Error)
	}
}
