package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"yqhp/chain-engine/internal/config"
	"yqhp/chain-engine/internal/parser"
	"yqhp/chain-engine/internal/report"
	"yqhp/chain-engine/pkg/engine"
	"yqhp/chain-engine/pkg/types"
)

var (
	runInput      string
	runInputFile  string
	runTimeout    time.Duration
	runResultFile string
	runSummary    bool
)

// runCmd is the run subcommand.
var runCmd = &cobra.Command{
	Use:   "run <chain.yaml>",
	Short: "Execute a chain definition file",
	Long: `Parse, validate and execute a chain definition file, then print the
execution result as JSON.`,
	Example: `  # Basic execution
  chain-engine run chain.yaml

  # With input fields
  chain-engine run -i '{"text": "hello world"}' chain.yaml

  # With a run timeout
  chain-engine run -t 30s chain.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runChain,
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "run input as a JSON object")
	runCmd.Flags().StringVar(&runInputFile, "input-file", "", "read the run input from a JSON file")
	runCmd.Flags().DurationVarP(&runTimeout, "timeout", "t", 0, "run timeout (0 uses the configured default)")
	runCmd.Flags().StringVarP(&runResultFile, "output", "o", "", "write the result JSON to a file instead of stdout")
	runCmd.Flags().BoolVar(&runSummary, "summary", false, "print a human-readable summary instead of JSON")

	rootCmd.AddCommand(runCmd)
}

func runChain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	def, err := parser.NewYAMLParser().ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse chain definition: %w", err)
	}

	input, err := readRunInput()
	if err != nil {
		return err
	}

	eng := engine.New(cfg, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := eng.ExecuteDefinition(ctx, def, input, engine.Options{Timeout: runTimeout})
	if err != nil {
		return err
	}

	if err := writeResult(result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("chain '%s' did not complete successfully: %s", def.ID, result.Error)
	}
	return nil
}

// readRunInput decodes the run input from the --input or --input-file flag.
func readRunInput() (map[string]any, error) {
	data := []byte(runInput)
	if runInputFile != "" {
		var err error
		data, err = os.ReadFile(runInputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	var input map[string]any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("run input must be a JSON object: %w", err)
	}
	return input, nil
}

// writeResult prints the result to the output file or stdout.
func writeResult(result *types.ExecutionResult) error {
	if runSummary && runResultFile == "" {
		report.WriteSummary(os.Stdout, result, report.DefaultConfig())
		return nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if runResultFile != "" {
		if err := os.WriteFile(runResultFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write result file: %w", err)
		}
		return nil
	}

	fmt.Println(string(data))
	return nil
}

// loadConfig loads the engine configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader = loader.WithConfigPath(cfgFile)
	}
	return loader.Load()
}
