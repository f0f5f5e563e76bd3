package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fyerfyer/atpg-engine/pkg/atpglog"
	"github.com/fyerfyer/atpg-engine/pkg/config"
	"github.com/fyerfyer/atpg-engine/pkg/driver"
	"github.com/fyerfyer/atpg-engine/pkg/fault"
	"github.com/fyerfyer/atpg-engine/pkg/netio"
	"github.com/fyerfyer/atpg-engine/pkg/tv"
	"github.com/stretchr/testify/require"
)

func newDriver(t *testing.T, contents string, cfg config.Config) *driver.Driver {
	t.Helper()
	path := filepath.Join(t.TempDir(), "c.bench")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	nl, err := netio.ReadBench(path)
	require.NoError(t, err)

	d := driver.New(cfg, atpglog.Nop())
	require.NoError(t, d.NewNetwork(nl))
	require.NoError(t, d.EnumerateFaults())
	require.NoError(t, d.NewSimulator())
	return d
}

func TestRunAllDetectsEveryFaultOnASimpleAND(t *testing.T) {
	cfg := config.Default()
	d := newDriver(t, "INPUT(A)\nINPUT(B)\nOUTPUT(Y)\nY = AND(A, B)\n", cfg)

	var collected []tv.Vector
	detected, err := d.RunAll(driver.DefaultSinks(&collected))
	require.NoError(t, err)
	require.NotEmpty(t, detected)
	require.Equal(t, detected, collected, "RunAll's own return value and the AppendToVectorList sink must agree")

	require.Greater(t, d.Stats.DtpgAttempts, 0)
	require.Equal(t, 0, d.Stats.Undetected, "every representative fault on a plain AND gate is testable")
}

func TestStatsGuardsZeroDenominators(t *testing.T) {
	s := &driver.Stats{}
	require.Equal(t, float64(0), s.DetectionRate())
	require.Equal(t, int64(0), int64(s.MeanBackTraceTime()))
}

func TestRunAllSkipsFaultsAlreadySkipped(t *testing.T) {
	cfg := config.Default()
	d := newDriver(t, "INPUT(A)\nOUTPUT(Y)\nY = NOT(A)\n", cfg)
	d.FaultDB().SetSkipAll()

	_, err := d.RunAll(driver.DefaultSinks(nil))
	require.NoError(t, err)
	require.Equal(t, 0, d.Stats.DtpgAttempts)
}

func TestRunAllPartitionsEveryAttemptIntoATerminalBucket(t *testing.T) {
	cfg := config.Default()
	d := newDriver(t, "INPUT(A)\nOUTPUT(Y)\nW = AND(A, A)\nY = NOT(W)\n", cfg)

	_, err := d.RunAll(driver.DefaultSinks(nil))
	require.NoError(t, err)
	require.Equal(t, d.Stats.DtpgAttempts, d.Stats.Detected+d.Stats.Untestable+d.Stats.Aborted)
}

func TestFaultDBStatusDefaultsToUndetected(t *testing.T) {
	cfg := config.Default()
	d := newDriver(t, "INPUT(A)\nOUTPUT(Y)\nY = NOT(A)\n", cfg)
	for _, id := range d.FaultDB().Representatives() {
		require.Equal(t, fault.Undetected, d.FaultDB().Status(id))
	}
}

func TestRunAllWithKPatternsCollectsMultipleVectorsPerFault(t *testing.T) {
	cfg := config.Default()
	cfg.Dtpg.KPatterns = 2
	d := newDriver(t, "INPUT(A)\nINPUT(B)\nINPUT(C)\nOUTPUT(Y)\nW = AND(A, B)\nY = OR(W, C)\n", cfg)

	detected, err := d.RunAll(driver.DefaultSinks(nil))
	require.NoError(t, err)
	require.NotEmpty(t, detected)

	detectedFaults := 0
	for _, id := range d.FaultDB().Representatives() {
		if d.FaultDB().Status(id) == fault.Detected {
			detectedFaults++
		}
	}
	require.Greater(t, len(detected), detectedFaults)
}
