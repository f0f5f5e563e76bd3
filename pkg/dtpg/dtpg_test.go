package dtpg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fyerfyer/atpg-engine/pkg/circuit"
	"github.com/fyerfyer/atpg-engine/pkg/config"
	"github.com/fyerfyer/atpg-engine/pkg/dtpg"
	"github.com/fyerfyer/atpg-engine/pkg/fault"
	"github.com/fyerfyer/atpg-engine/pkg/netio"
	"github.com/fyerfyer/atpg-engine/pkg/sat"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, contents string, ft config.FaultType) (*circuit.Network, *fault.FaultDB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "c.bench")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	nl, err := netio.ReadBench(path)
	require.NoError(t, err)
	net, err := circuit.Build(nl)
	require.NoError(t, err)
	db, err := fault.Enumerate(net, ft)
	require.NoError(t, err)
	return net, db
}

func findFault(db *fault.FaultDB, node int, kind fault.Kind, pin int, val fault.Value) int {
	for i := range db.All() {
		f := &db.All()[i]
		if f.Node == node && f.Kind == kind && f.Pin == pin && f.StuckValue == val {
			return f.ID
		}
	}
	return -1
}

func gateNode(net *circuit.Network, gate circuit.GateKind) *circuit.Node {
	for id := 0; id < net.NodeCount(); id++ {
		n := net.NodeByID(id)
		if n.Kind == circuit.GateNode && n.Gate == gate {
			return n
		}
	}
	return nil
}

func nodeByName(net *circuit.Network, name string) *circuit.Node {
	for id := 0; id < net.NodeCount(); id++ {
		n := net.NodeByID(id)
		if n.Kind == circuit.GateNode && n.Name == name {
			return n
		}
	}
	return nil
}

var budget = sat.Budget{MaxConflicts: 50000}

func TestEncodeRejectsOutOfRangeRegion(t *testing.T) {
	net, db := build(t, "INPUT(A)\nINPUT(B)\nOUTPUT(Y)\nY = AND(A, B)\n", config.StuckAt)
	_, err := dtpg.Encode(net, db, config.StuckAt, config.ScopeFFR, 99)
	require.Error(t, err)
}

func TestGenPatternDetectsStuckAtFaultOnAND(t *testing.T) {
	net, db := build(t, "INPUT(A)\nINPUT(B)\nOUTPUT(Y)\nY = AND(A, B)\n", config.StuckAt)
	g := gateNode(net, circuit.And)
	require.NotNil(t, g)
	branchA1 := findFault(db, g.ID, fault.BranchFault, 0, fault.One)
	require.GreaterOrEqual(t, branchA1, 0)

	h, err := dtpg.Encode(net, db, config.StuckAt, config.ScopeFFR, net.NodeByID(g.ID).FFRID)
	require.NoError(t, err)

	out := h.GenPattern(branchA1, config.JustifyMinSupportSingle, budget)
	require.Equal(t, fault.Detected, out.Status)
	require.Len(t, out.Pattern, 2)

	// A must be 0 (the activating value); B must not be 0 (AND's
	// controlling value), else the difference is masked at the gate.
	piA := -1
	for i, id := range net.PPIs() {
		if net.NodeByID(id).Name == "A" {
			piA = i
		}
	}
	require.NotEqual(t, -1, piA)
	require.Equal(t, 0, int(out.Pattern[piA]))

	require.Equal(t, 1, h.Stats.Attempts)
	require.Equal(t, 1, h.Stats.Detected)
}

func TestGenPatternReportsUntestableOnRedundantFault(t *testing.T) {
	// Y = (A&S) | (A&~S) == A regardless of S: the classic multiplexer-
	// absorption redundancy. Forcing the S branch feeding W1 stuck-at-1
	// turns W1 into a plain copy of A, and Y = A | (A & ~S) is still A by
	// absorption — the fault can never change Y for any A, S, so it is
	// untestable.
	net, db := build(t, "INPUT(A)\nINPUT(S)\nOUTPUT(Y)\n"+
		"NS = NOT(S)\nW1 = AND(A, S)\nW2 = AND(A, NS)\nY = OR(W1, W2)\n", config.StuckAt)
	w1 := nodeByName(net, "W1")
	require.NotNil(t, w1)
	require.Equal(t, 2, len(w1.Fanin))

	sBranch := findFault(db, w1.ID, fault.BranchFault, 1, fault.One)
	require.GreaterOrEqual(t, sBranch, 0)

	h, err := dtpg.Encode(net, db, config.StuckAt, config.ScopeFFR, w1.FFRID)
	require.NoError(t, err)
	out := h.GenPattern(sBranch, config.JustifyMinSupportSingle, budget)
	require.Equal(t, fault.Untestable, out.Status)
}

func TestGenKPatternsBlocksRepeatedAssignments(t *testing.T) {
	net, db := build(t, "INPUT(A)\nINPUT(B)\nINPUT(C)\nOUTPUT(Y)\nW = AND(A, B)\nY = OR(W, C)\n", config.StuckAt)
	w := gateNode(net, circuit.And)
	require.NotNil(t, w)
	branchA1 := findFault(db, w.ID, fault.BranchFault, 0, fault.One)
	require.GreaterOrEqual(t, branchA1, 0)

	h, err := dtpg.Encode(net, db, config.StuckAt, config.ScopeFFR, net.NodeByID(w.ID).FFRID)
	require.NoError(t, err)

	outs := h.GenKPatterns(branchA1, config.JustifyMinSupportSingle, budget, 3)
	require.NotEmpty(t, outs)
	require.Equal(t, fault.Detected, outs[0].Status)

	seen := map[string]bool{}
	for _, o := range outs {
		if o.Status != fault.Detected {
			continue
		}
		key := ""
		for _, b := range o.Pattern {
			key += b.String()
		}
		require.False(t, seen[key], "GenKPatterns returned the same PPI assignment twice: %s", key)
		seen[key] = true
	}
}

func TestGenPatternOnTransitionDelayFault(t *testing.T) {
	net, db := build(t, "INPUT(A)\nOUTPUT(Y)\nY = NOT(A)\n", config.TransitionDelay)
	g := gateNode(net, circuit.Not)
	require.NotNil(t, g)

	stem0 := findFault(db, g.ID, fault.StemFault, 0, fault.Zero)
	require.GreaterOrEqual(t, stem0, 0)

	h, err := dtpg.Encode(net, db, config.TransitionDelay, config.ScopeFFR, net.NodeByID(g.ID).FFRID)
	require.NoError(t, err)

	out := h.GenPattern(stem0, config.JustifyMinSupportSingle, budget)
	require.Equal(t, fault.Detected, out.Status)
	// Transition pattern is two frames wide over the single PPI.
	require.Len(t, out.Pattern, 2)
}

func TestGenPatternWithZeroConflictBudgetEndsInTerminalStatus(t *testing.T) {
	net, db := build(t, "INPUT(A)\nINPUT(B)\nOUTPUT(Y)\nY = AND(A, B)\n", config.StuckAt)
	g := gateNode(net, circuit.And)
	branchA1 := findFault(db, g.ID, fault.BranchFault, 0, fault.One)

	h, err := dtpg.Encode(net, db, config.StuckAt, config.ScopeFFR, net.NodeByID(g.ID).FFRID)
	require.NoError(t, err)

	out := h.GenPattern(branchA1, config.JustifyMinSupportSingle, sat.Budget{MaxConflicts: 0})
	require.Contains(t, []fault.Status{fault.Detected, fault.Aborted, fault.Untestable}, out.Status)
}
