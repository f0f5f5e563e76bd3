package justify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fyerfyer/atpg-engine/pkg/circuit"
	"github.com/fyerfyer/atpg-engine/pkg/justify"
	"github.com/fyerfyer/atpg-engine/pkg/netio"
	"github.com/fyerfyer/atpg-engine/pkg/tv"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, contents string) *circuit.Network {
	t.Helper()
	path := filepath.Join(t.TempDir(), "c.bench")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	nl, err := netio.ReadBench(path)
	require.NoError(t, err)
	net, err := circuit.Build(nl)
	require.NoError(t, err)
	return net
}

func gateNode(net *circuit.Network) *circuit.Node {
	for id := 0; id < net.NodeCount(); id++ {
		n := net.NodeByID(id)
		if n.Kind == circuit.GateNode {
			return n
		}
	}
	return nil
}

func ppiIndex(net *circuit.Network, name string) int {
	for i, id := range net.PPIs() {
		if net.NodeByID(id).Name == name {
			return i
		}
	}
	return -1
}

func TestJustifyMinSupportPicksSingleControllingFaninOnAND(t *testing.T) {
	net := build(t, "INPUT(A)\nINPUT(B)\nOUTPUT(Y)\nY = AND(A, B)\n")
	g := gateNode(net)

	// Requiring Y=0 only needs one fanin held at AND's controlling value 0;
	// the model supplies A=0, B=1, but the minimal walk should record only
	// the first controlling fanin (A) and leave B unjustified (X).
	model := map[int]tv.Bit{g.Fanin[0]: tv.Zero, g.Fanin[1]: tv.One, g.ID: tv.Zero}
	assignments := []justify.NodeValue{{Node: g.ID, Value: tv.Zero}}

	v := justify.Justify(justify.MinSupportSingle, net, assignments, model)
	require.Equal(t, tv.Zero, v[ppiIndex(net, "A")])
	require.Equal(t, tv.X, v[ppiIndex(net, "B")])
}

func TestJustifyAllRecordsEveryFaninAndDefaultsRest(t *testing.T) {
	net := build(t, "INPUT(A)\nINPUT(B)\nINPUT(C)\nOUTPUT(Y)\nY = AND(A, B)\n")
	g := gateNode(net)

	model := map[int]tv.Bit{g.Fanin[0]: tv.Zero, g.Fanin[1]: tv.One, g.ID: tv.Zero}
	assignments := []justify.NodeValue{{Node: g.ID, Value: tv.Zero}}

	v := justify.Justify(justify.All, net, assignments, model)
	require.Equal(t, tv.Zero, v[ppiIndex(net, "A")])
	require.Equal(t, tv.One, v[ppiIndex(net, "B")])
	// C never appears in model or assignments; All still defaults it to Zero.
	require.Equal(t, tv.Zero, v[ppiIndex(net, "C")])
}

func TestJustifyMinSupportBestPrefersPPIFanin(t *testing.T) {
	// Y = OR(A, W), W = AND(B, C): requiring Y=1 can be justified either by
	// A=1 directly (a PPI, no further walk) or by W=1 (which needs both B
	// and C at their own controlling values). MinSupportBest must choose A.
	net := build(t, "INPUT(A)\nINPUT(B)\nINPUT(C)\nOUTPUT(Y)\nW = AND(B, C)\nY = OR(A, W)\n")

	var orNode *circuit.Node
	for id := 0; id < net.NodeCount(); id++ {
		n := net.NodeByID(id)
		if n.Kind == circuit.GateNode && n.Gate == circuit.Or {
			orNode = n
		}
	}
	require.NotNil(t, orNode)

	model := map[int]tv.Bit{}
	for _, id := range orNode.Fanin {
		model[id] = tv.One
	}
	model[orNode.ID] = tv.One
	assignments := []justify.NodeValue{{Node: orNode.ID, Value: tv.One}}

	v := justify.Justify(justify.MinSupportBest, net, assignments, model)
	require.Equal(t, tv.One, v[ppiIndex(net, "A")])
	require.Equal(t, tv.X, v[ppiIndex(net, "B")])
	require.Equal(t, tv.X, v[ppiIndex(net, "C")])
}

func TestJustifyXorRecordsBothFanins(t *testing.T) {
	net := build(t, "INPUT(A)\nINPUT(B)\nOUTPUT(Y)\nY = XOR(A, B)\n")
	g := gateNode(net)

	model := map[int]tv.Bit{g.Fanin[0]: tv.Zero, g.Fanin[1]: tv.One, g.ID: tv.One}
	assignments := []justify.NodeValue{{Node: g.ID, Value: tv.One}}

	v := justify.Justify(justify.MinSupportSingle, net, assignments, model)
	require.Equal(t, tv.Zero, v[ppiIndex(net, "A")])
	require.Equal(t, tv.One, v[ppiIndex(net, "B")])
}
