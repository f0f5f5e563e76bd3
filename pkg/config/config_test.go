package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fyerfyer/atpg-engine/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, config.StuckAt, cfg.FaultType)
	require.Equal(t, config.ScopeFFR, cfg.Dtpg.ScopeMode)
	require.Equal(t, config.JustifyMinSupportSingle, cfg.Dtpg.JustifierKind)
	require.Greater(t, cfg.Sat.MaxConflicts, 0)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atpg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fault_type: transition-delay\ndtpg:\n  scope_mode: mffc\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.TransitionDelay, cfg.FaultType)
	require.Equal(t, config.ScopeMFFC, cfg.Dtpg.ScopeMode)
	// Untouched fields keep their default value.
	require.Equal(t, config.JustifyMinSupportSingle, cfg.Dtpg.JustifierKind)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
