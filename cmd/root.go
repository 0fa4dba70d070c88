package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yqhp/chain-engine/pkg/logger"

	// Register the built-in capabilities.
	_ "yqhp/chain-engine/internal/capability/builtin"
)

const (
	// Version is the current version number.
	Version = "0.1.0"
	// Banner is the ASCII art shown on startup.
	Banner = `
   ___  |‾‾| Chain Engine %s
  / - \ |  |
 | ( ) ||  |
  \ - / |  |
   ‾‾‾  |__|
`
)

var (
	cfgFile string
	debug   bool
	quiet   bool
)

// rootCmd is the root command.
var rootCmd = &cobra.Command{
	Use:   "chain-engine",
	Short: "DAG chain execution engine",
	Long: `chain-engine executes chain definitions: directed acyclic graphs of
plugin, condition, transform, merge and split nodes with explicit data
routing between them.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case debug:
			logger.SetLevelFromString("debug")
		case quiet:
			logger.SetLevelFromString("error")
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.SetVersionTemplate(fmt.Sprintf(Banner, Version) + "\n")
}
