package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunAtpgEndToEnd(t *testing.T) {
	dir := t.TempDir()
	netlistPath := filepath.Join(dir, "c.bench")
	require.NoError(t, os.WriteFile(netlistPath, []byte(
		"INPUT(A)\nINPUT(B)\nOUTPUT(Y)\nY = AND(A, B)\n"), 0o644))
	statsPath := filepath.Join(dir, "stats.json")

	cfgFile = ""
	verbose = false

	require.NoError(t, runCmd.Flags().Set("netlist", netlistPath))
	require.NoError(t, runCmd.Flags().Set("format", "bench"))
	require.NoError(t, runCmd.Flags().Set("stats-out", statsPath))
	defer func() {
		require.NoError(t, runCmd.Flags().Set("netlist", ""))
		require.NoError(t, runCmd.Flags().Set("stats-out", ""))
	}()

	require.NoError(t, runAtpg(runCmd, nil))

	data, err := os.ReadFile(statsPath)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestRunAtpgRequiresNetlistFlag(t *testing.T) {
	require.NoError(t, runCmd.Flags().Set("netlist", ""))
	err := runAtpg(runCmd, nil)
	require.Error(t, err)
}

func TestRenderStatsRequiresInFlag(t *testing.T) {
	require.NoError(t, statsCmd.Flags().Set("in", ""))
	err := renderStats(statsCmd, nil)
	require.Error(t, err)
}
