package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/halim/orin/internal/logger"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools",
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Close()

	registry, err := newRegistry(cfg, log)
	if err != nil {
		return err
	}

	descriptors := registry.ListMetadata()
	if len(descriptors) == 0 {
		fmt.Println("No tools registered.")
		return nil
	}

	for _, desc := range descriptors {
		fmt.Printf("%s\n    %s\n", desc.Name, desc.Description)

		names := make([]string, 0, len(desc.InputSchema.Properties))
		for name := range desc.InputSchema.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			prop := desc.InputSchema.Properties[name]
			requirement := "optional"
			for _, req := range desc.InputSchema.Required {
				if req == name {
					requirement = "required"
					break
				}
			}
			fmt.Printf("    - %s [%s] (%s): %s\n", name, prop.Type, requirement, prop.Description)
		}
		fmt.Println()
	}
	return nil
}
