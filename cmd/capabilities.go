package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"yqhp/chain-engine/internal/capability"
)

// capabilitiesCmd is the capabilities subcommand.
var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "List the registered capabilities",
	Run: func(cmd *cobra.Command, args []string) {
		for _, m := range capability.DefaultRegistry.Manifests() {
			fmt.Printf("%s\t%s\n", m.ID, m.Description)
			for _, input := range m.Inputs {
				required := ""
				if input.Required {
					required = " (required)"
				}
				fmt.Printf("    in:  %s %s%s\n", input.Name, input.Type, required)
			}
			for _, field := range m.Output.Fields {
				fmt.Printf("    out: %s\n", field)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(capabilitiesCmd)
}
