package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"yqhp/chain-engine/internal/capability"
	"yqhp/chain-engine/internal/chain"
	"yqhp/chain-engine/internal/parser"
)

// validateCmd is the validate subcommand.
var validateCmd = &cobra.Command{
	Use:   "validate <chain.yaml>",
	Short: "Validate a chain definition file without executing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := parser.NewYAMLParser().ParseFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to parse chain definition: %w", err)
		}

		report := chain.NewValidator(capability.DefaultRegistry).Validate(def)

		for _, warning := range report.Warnings {
			fmt.Printf("warning: %s\n", warning)
		}
		for _, e := range report.Errors {
			fmt.Printf("error: %s\n", e)
		}

		if !report.Valid {
			return fmt.Errorf("chain '%s' is invalid: %d error(s)", def.ID, len(report.Errors))
		}
		fmt.Printf("chain '%s' is valid (%d nodes, %d edges)\n", def.ID, len(def.Nodes), len(def.Edges))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
