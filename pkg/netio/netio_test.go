package netio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fyerfyer/atpg-engine/pkg/netio"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestReadBenchInverter(t *testing.T) {
	path := writeTemp(t, "inv.bench", "INPUT(A)\nOUTPUT(Y)\nY = NOT(A)\n")
	nl, err := netio.ReadBench(path)
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, nl.Inputs)
	require.Equal(t, []string{"Y"}, nl.Outputs)
	require.Len(t, nl.Gates, 1)
	require.Equal(t, netio.KindNot, nl.Gates[0].Kind)
	require.Equal(t, []string{"A"}, nl.Gates[0].Inputs)
}

func TestReadBenchAndGate(t *testing.T) {
	path := writeTemp(t, "and.bench", "INPUT(A)\nINPUT(B)\nOUTPUT(Y)\nY = AND(A, B)\n")
	nl, err := netio.ReadBench(path)
	require.NoError(t, err)
	require.Len(t, nl.Gates, 1)
	require.Equal(t, netio.KindAnd, nl.Gates[0].Kind)
	require.Equal(t, []string{"A", "B"}, nl.Gates[0].Inputs)
}

func TestReadBenchRejectsUnknownGate(t *testing.T) {
	path := writeTemp(t, "bad.bench", "INPUT(A)\nOUTPUT(Y)\nY = MUX(A)\n")
	_, err := netio.ReadBench(path)
	require.Error(t, err)
}

func TestReadBLIFNamesCover(t *testing.T) {
	blif := ".model m\n.inputs a b\n.outputs y\n.names a b y\n11 1\n.end\n"
	path := writeTemp(t, "m.blif", blif)
	nl, err := netio.ReadBLIF(path)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, nl.Inputs)
	require.Len(t, nl.Gates, 1)
	require.Equal(t, netio.KindComplex, nl.Gates[0].Kind)
	require.Equal(t, []string{"11 1"}, nl.Gates[0].Cover)
}

func TestReadBLIFLatch(t *testing.T) {
	blif := ".model m\n.inputs clk d\n.outputs q\n.latch d q re clk 0\n.end\n"
	path := writeTemp(t, "m2.blif", blif)
	nl, err := netio.ReadBLIF(path)
	require.NoError(t, err)
	require.Len(t, nl.DFFs, 1)
	require.Equal(t, "d", nl.DFFs[0].D)
	require.Equal(t, "q", nl.DFFs[0].Q)
}
