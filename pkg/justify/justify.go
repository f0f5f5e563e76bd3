// Package justify implements the backward-justification walk (spec §4.6):
// turning a set of required node values plus a full satisfying SAT model
// into a TestVector over a Network's PPIs.
package justify

import (
	"github.com/fyerfyer/atpg-engine/pkg/circuit"
	"github.com/fyerfyer/atpg-engine/pkg/tv"
)

// Kind selects the justifier variant (spec §4.6 just0/just1/just2).
type Kind int

const (
	MinSupportSingle Kind = iota // just1: minimum controlling fanins, first on ties
	MinSupportBest               // just2: minimum controlling fanins, prefers a PPI fanin on ties
	All                          // just0: every fanin recorded, no X left unfilled
)

// NodeValue pins one node of the network to a required value.
type NodeValue struct {
	Node  int
	Value tv.Bit
}

// Justify backward-walks from assignments through net's gate structure,
// using modelValues (the full satisfying SAT model, keyed by node ID) to
// resolve any fanin whose required value cannot be derived from the gate's
// controlling-value logic alone (XOR/XNOR and any node the minimal walk
// does not itself need to visit). The result is a Vector over net.PPIs()
// with X at every position the walk never reaches, except under All where
// every remaining X is filled with a default of Zero (spec §4.6 "a
// TestVector with X in every unjustified position").
func Justify(kind Kind, net *circuit.Network, assignments []NodeValue, modelValues map[int]tv.Bit) tv.Vector {
	known := make(map[int]tv.Bit, len(modelValues)+len(assignments))
	for id, v := range modelValues {
		known[id] = v
	}
	for _, a := range assignments {
		known[a.Node] = a.Value
	}

	queue := make([]int, 0, len(assignments))
	for _, a := range assignments {
		queue = append(queue, a.Node)
	}
	visited := make(map[int]bool, len(queue))

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		n := net.NodeByID(id)
		switch {
		case n.Kind.IsPPI():
			continue
		case n.Kind.IsPPO():
			fanin := n.Fanin[0]
			if _, ok := known[fanin]; !ok {
				known[fanin] = known[id]
			}
			queue = append(queue, fanin)
		default: // GateNode
			faninVals := make([]tv.Bit, len(n.Fanin))
			preferPPI := make([]bool, len(n.Fanin))
			for i, f := range n.Fanin {
				v, ok := known[f]
				if !ok {
					v = tv.X
				}
				faninVals[i] = v
				preferPPI[i] = net.NodeByID(f).Kind.IsPPI()
			}
			for _, i := range supportIndices(n.Gate, len(n.Fanin), faninVals, kind, preferPPI) {
				f := n.Fanin[i]
				if _, ok := known[f]; !ok {
					known[f] = faninVals[i]
				}
				queue = append(queue, f)
			}
		}
	}

	ppis := net.PPIs()
	out := tv.New(len(ppis))
	for i, id := range ppis {
		if v, ok := known[id]; ok && (kind == All || visited[id]) {
			out[i] = v
		}
	}
	if kind == All {
		for i := range out {
			if out[i] == tv.X {
				out[i] = tv.Zero
			}
		}
	}
	return out
}

// supportIndices returns which of a gate's fanin positions must be
// recorded to justify its already-known output: for All, every position;
// for the minimal variants, the single controlling fanin when one exists
// (MinSupportBest prefers a candidate that is itself a PPI, needing no
// further walk), or every position when the gate has no controlling value
// or every fanin is forced (spec §4.6 just1/just2).
func supportIndices(gate circuit.GateKind, arity int, faninVals []tv.Bit, kind Kind, preferPPI []bool) []int {
	all := func() []int {
		out := make([]int, arity)
		for i := range out {
			out[i] = i
		}
		return out
	}

	if kind == All {
		return all()
	}

	switch gate {
	case circuit.And, circuit.Nand:
		return minimalControlling(faninVals, tv.Zero, kind, preferPPI, all)
	case circuit.Or, circuit.Nor:
		return minimalControlling(faninVals, tv.One, kind, preferPPI, all)
	default: // Buf, Not, Xor, Xnor: every fanin participates, no shortcut.
		return all()
	}
}

func minimalControlling(faninVals []tv.Bit, controlling tv.Bit, kind Kind, preferPPI []bool, all func() []int) []int {
	var candidates []int
	for i, v := range faninVals {
		if v == controlling {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return all() // every fanin is forced to the non-controlling side
	}
	if kind == MinSupportBest {
		for _, c := range candidates {
			if preferPPI[c] {
				return []int{c}
			}
		}
	}
	return []int{candidates[0]}
}
