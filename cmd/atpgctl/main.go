package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "atpgctl",
	Short:   "Automatic test pattern generation for digital logic circuits",
	Long:    `atpgctl drives the stuck-at and transition-delay ATPG engine over a BLIF or ISCAS89 netlist.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML configuration file (default is built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug-level) logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
}

// Commands are defined in separate files:
// - runCmd in run.go
// - statsCmd in stats.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
