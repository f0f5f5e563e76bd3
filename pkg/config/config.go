// Package config loads the YAML-driven configuration recognized at DTPG
// scope construction (spec §6 "Configuration").
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FaultType selects the fault model the engine targets.
type FaultType string

const (
	StuckAt         FaultType = "stuck-at"
	TransitionDelay FaultType = "transition-delay"
)

// JustifierKind selects the backward-justification variant.
type JustifierKind string

const (
	JustifyAll              JustifierKind = "all"
	JustifyMinSupportSingle JustifierKind = "just1"
	JustifyMinSupportBest   JustifierKind = "just2"
)

// ScopeMode selects whether DTPG encodes one FFR or one whole MFFC at a
// time.
type ScopeMode string

const (
	ScopeFFR  ScopeMode = "ffr"
	ScopeMFFC ScopeMode = "mffc"
)

// LogConfig configures pkg/atpglog.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SatConfig configures the SAT solver used by DTPG scopes.
type SatConfig struct {
	SolverType string        `yaml:"solver_type"`
	MaxConflicts int         `yaml:"max_conflicts"`
	Timeout      time.Duration `yaml:"timeout"`
}

// DtpgConfig configures spec §6's DTPG-specific knobs.
type DtpgConfig struct {
	JustifierKind JustifierKind `yaml:"justifier_kind"`
	ScopeMode     ScopeMode     `yaml:"scope_mode"`
	KPatterns     int           `yaml:"k_patterns"`
	EnableTimer   bool          `yaml:"enable_timer"`
}

// Config is the top-level configuration recognized at scope construction.
type Config struct {
	FaultType FaultType  `yaml:"fault_type"`
	Dtpg      DtpgConfig `yaml:"dtpg"`
	Sat       SatConfig  `yaml:"sat"`
	Log       LogConfig  `yaml:"log"`
}

// Default returns the configuration the driver uses when the user supplies
// no file: stuck-at faults, FFR-scoped DTPG, just1 justification, a SAT
// budget of 50000 conflicts and 10 seconds per attempt, info logging.
func Default() Config {
	return Config{
		FaultType: StuckAt,
		Dtpg: DtpgConfig{
			JustifierKind: JustifyMinSupportSingle,
			ScopeMode:     ScopeFFR,
			KPatterns:     1,
			EnableTimer:   true,
		},
		Sat: SatConfig{
			SolverType:   "dpll",
			MaxConflicts: 50000,
			Timeout:      10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML configuration file, applying Default() for any field
// the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
