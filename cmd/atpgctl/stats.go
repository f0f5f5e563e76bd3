package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fyerfyer/atpg-engine/pkg/driver"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Args:  cobra.NoArgs,
	Short: "Re-render a Stats JSON dump previously written by 'run --stats-out'",
	RunE:  renderStats,
}

func init() {
	statsCmd.Flags().String("in", "", "path to a Stats JSON file written by run --stats-out (required)")
}

func renderStats(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("in")
	if path == "" {
		return fmt.Errorf("--in flag is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var snap driver.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	fmt.Printf("faults: %d detected, %d untestable, %d aborted, %d undetected\n",
		snap.Detected, snap.Untestable, snap.Aborted, snap.Undetected)
	fmt.Printf("patterns generated: %d\n", snap.PatternCount)
	fmt.Printf("detection rate: %.2f%%\n", snap.DetectionRate*100)
	fmt.Printf("mean back-trace time: %.6fs\n", snap.MeanBackTraceSeconds)
	fmt.Printf("total time: %.6fs\n", snap.TotalSeconds)

	names := make([]string, 0, len(snap.PhaseSeconds))
	for name := range snap.PhaseSeconds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-18s %.6fs\n", name, snap.PhaseSeconds[name])
	}
	return nil
}
