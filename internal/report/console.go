// Package report renders execution results for human consumption.
package report

import (
	"fmt"
	"io"
	"strings"

	"yqhp/chain-engine/pkg/types"
)

// Config holds configuration for the console summary.
type Config struct {
	// ColorOutput enables colored status markers.
	ColorOutput bool
	// ShowBatches prints the scheduled batches ahead of the node table.
	ShowBatches bool
}

// DefaultConfig returns the default console summary configuration.
func DefaultConfig() *Config {
	return &Config{
		ColorOutput: true,
		ShowBatches: false,
	}
}

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
)

// WriteSummary renders a human-readable run summary: one line per node in
// record order, then the overall outcome.
func WriteSummary(w io.Writer, result *types.ExecutionResult, cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	fmt.Fprintf(w, "chain %s  run %s\n", result.ChainID, result.RunID)

	if cfg.ShowBatches {
		for i, batch := range result.Batches {
			fmt.Fprintf(w, "  batch %d: %s\n", i, strings.Join(batch, ", "))
		}
	}

	for _, rec := range result.Records {
		marker := statusMarker(rec.Status, cfg.ColorOutput)
		line := fmt.Sprintf("  %s %-24s %-10s", marker, rec.NodeID, rec.Status)
		if rec.Status == types.NodeStatusSucceeded || rec.Status == types.NodeStatusFailed {
			line += fmt.Sprintf(" %8.1fms", float64(rec.Duration.Microseconds())/1000.0)
		}
		if rec.Error != "" {
			line += "  " + rec.Error
		}
		fmt.Fprintln(w, line)
	}

	if result.Success {
		fmt.Fprintf(w, "completed in %v\n", result.Duration)
	} else {
		fmt.Fprintf(w, "failed after %v: %s\n", result.Duration, result.Error)
	}
}

// statusMarker returns the one-character marker for a node status.
func statusMarker(status types.NodeStatus, color bool) string {
	var marker, c string
	switch status {
	case types.NodeStatusSucceeded:
		marker, c = "+", colorGreen
	case types.NodeStatusFailed:
		marker, c = "x", colorRed
	case types.NodeStatusSkipped:
		marker, c = "-", colorYellow
	default:
		marker, c = "?", colorYellow
	}
	if color {
		return c + marker + colorReset
	}
	return marker
}
