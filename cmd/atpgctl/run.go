package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fyerfyer/atpg-engine/pkg/atpglog"
	"github.com/fyerfyer/atpg-engine/pkg/config"
	"github.com/fyerfyer/atpg-engine/pkg/driver"
	"github.com/fyerfyer/atpg-engine/pkg/netio"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Args:  cobra.NoArgs,
	Short: "Run one full ATPG pass over a netlist and print the spec report",
	RunE:  runAtpg,
}

func init() {
	runCmd.Flags().String("netlist", "", "path to the circuit netlist (required)")
	runCmd.Flags().String("format", "bench", "netlist format: bench or blif")
	runCmd.Flags().String("fault-type", "", "stuck-at or transition-delay (overrides config)")
	runCmd.Flags().String("scope", "", "ffr or mffc (overrides config)")
	runCmd.Flags().String("justifier", "", "all, just1, or just2 (overrides config)")
	runCmd.Flags().Int("k-patterns", 0, "patterns per fault (overrides config; 0 means leave config's value)")
	runCmd.Flags().Duration("sat-timeout", 0, "per-fault SAT wall-clock budget (overrides config)")
	runCmd.Flags().String("stats-out", "", "write the run's Stats snapshot as JSON to this path")
}

func runAtpg(cmd *cobra.Command, args []string) error {
	netlistPath, _ := cmd.Flags().GetString("netlist")
	if netlistPath == "" {
		return fmt.Errorf("--netlist flag is required")
	}
	format, _ := cmd.Flags().GetString("format")
	statsOut, _ := cmd.Flags().GetString("stats-out")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(cmd, &cfg); err != nil {
		return err
	}

	level := atpglog.Level(cfg.Log.Level)
	if verbose {
		level = atpglog.LevelDebug
	}
	log := atpglog.New(atpglog.Config{Level: level, Format: atpglog.Format(cfg.Log.Format)})

	var nl *netio.Netlist
	switch format {
	case "blif":
		nl, err = netio.ReadBLIF(netlistPath)
	default:
		nl, err = netio.ReadBench(netlistPath)
	}
	if err != nil {
		return fmt.Errorf("read netlist: %w", err)
	}

	d := driver.New(cfg, log)
	if err := d.NewNetwork(nl); err != nil {
		return err
	}
	if err := d.EnumerateFaults(); err != nil {
		return err
	}
	if err := d.NewSimulator(); err != nil {
		return err
	}

	detected, err := d.RunAll(driver.DefaultSinks(nil))
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	printReport(d, len(detected))

	if statsOut != "" {
		if err := writeStatsSnapshot(d, statsOut); err != nil {
			return fmt.Errorf("write stats: %w", err)
		}
	}
	return nil
}

func loadConfig() (config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.Load(cfgFile)
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	if v, _ := cmd.Flags().GetString("fault-type"); v != "" {
		switch v {
		case "stuck-at":
			cfg.FaultType = config.StuckAt
		case "transition-delay":
			cfg.FaultType = config.TransitionDelay
		default:
			return fmt.Errorf("--fault-type must be stuck-at or transition-delay, got %q", v)
		}
	}
	if v, _ := cmd.Flags().GetString("scope"); v != "" {
		switch v {
		case "ffr":
			cfg.Dtpg.ScopeMode = config.ScopeFFR
		case "mffc":
			cfg.Dtpg.ScopeMode = config.ScopeMFFC
		default:
			return fmt.Errorf("--scope must be ffr or mffc, got %q", v)
		}
	}
	if v, _ := cmd.Flags().GetString("justifier"); v != "" {
		switch v {
		case "all":
			cfg.Dtpg.JustifierKind = config.JustifyAll
		case "just1":
			cfg.Dtpg.JustifierKind = config.JustifyMinSupportSingle
		case "just2":
			cfg.Dtpg.JustifierKind = config.JustifyMinSupportBest
		default:
			return fmt.Errorf("--justifier must be all, just1, or just2, got %q", v)
		}
	}
	if v, _ := cmd.Flags().GetInt("k-patterns"); v > 0 {
		cfg.Dtpg.KPatterns = v
	}
	if v, _ := cmd.Flags().GetDuration("sat-timeout"); v > 0 {
		cfg.Sat.Timeout = v
	}
	return nil
}

func printReport(d *driver.Driver, patternCount int) {
	s := d.Stats
	fmt.Printf("faults: %d detected, %d untestable, %d aborted, %d undetected\n",
		s.Detected, s.Untestable, s.Aborted, s.Undetected)
	fmt.Printf("patterns generated: %d\n", patternCount)
	fmt.Printf("detection rate: %.2f%%\n", s.DetectionRate()*100)
	for _, p := range []driver.Phase{
		driver.PhaseParse, driver.PhaseEnumerate, driver.PhaseSimulate,
		driver.PhaseDtpg, driver.PhaseSat, driver.PhaseBackTrace, driver.PhaseMisc,
	} {
		fmt.Printf("  %-18s %v\n", p, s.PhaseTime(p).Round(time.Microsecond))
	}
}

func writeStatsSnapshot(d *driver.Driver, path string) error {
	data, err := json.MarshalIndent(d.Stats.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
