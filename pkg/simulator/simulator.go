// Package simulator implements the parallel-pattern good-value and
// fault-effect simulator (spec §4.4 "Simulator"): levelized good-value
// evaluation, per-FFR fault injection, and event-driven propagation of the
// resulting differences through the rest of the network.
package simulator

import (
	"fmt"

	"github.com/fyerfyer/atpg-engine/pkg/atpglog"
	"github.com/fyerfyer/atpg-engine/pkg/circuit"
	"github.com/fyerfyer/atpg-engine/pkg/config"
	"github.com/fyerfyer/atpg-engine/pkg/fault"
	"github.com/fyerfyer/atpg-engine/pkg/pval"
	"github.com/fyerfyer/atpg-engine/pkg/tv"
)

// simState is the per-node runtime state the arena carries alongside the
// immutable circuit.Network (spec §9 "SimNode is a tagged-union struct" —
// simplified here to a plain value/prev pair since the network's Fanin/
// Fanout already live on circuit.Node and need not be duplicated).
type simState struct {
	val  pval.Val3
	prev pval.Val3 // frame-1 good value, meaningful only in transition mode
}

// Detection is one fault found to differ from the good machine on at least
// one pattern slot of the current batch.
type Detection struct {
	Fault int
	Mask  pval.Val // bit i set iff pattern slot i detects Fault
}

// Simulator evaluates one circuit.Network's good and faulty behavior over a
// batch of up to pval.W patterns at a time (spec §4.4).
type Simulator struct {
	net       *circuit.Network
	db        *fault.FaultDB
	faultType config.FaultType
	log       *atpglog.Logger

	nodes []simState

	frame1Words []pval.Val3 // one per PPI, bit i = pattern slot i
	frame2Words []pval.Val3 // used only in transition mode

	eq   *eventQueue
	flip []pval.Val
}

// New builds a Simulator bound to net and db. faultType must match the
// FaultType db was enumerated with.
func New(net *circuit.Network, db *fault.FaultDB, faultType config.FaultType, log *atpglog.Logger) *Simulator {
	if log == nil {
		log = atpglog.Nop()
	}
	nPPI := len(net.PPIs())
	s := &Simulator{
		net:         net,
		db:          db,
		faultType:   faultType,
		log:         log,
		nodes:       make([]simState, net.NodeCount()),
		frame1Words: make([]pval.Val3, nPPI),
		frame2Words: make([]pval.Val3, nPPI),
		eq:          newEventQueue(net.MaxLevel(), net.NodeCount()),
		flip:        make([]pval.Val, net.NodeCount()),
	}
	s.ClearPatterns()
	return s
}

// SetPattern loads TestVector v into pattern slot i of the current batch.
// In stuck-at mode v must have one Bit per PPI; in transition-delay mode it
// must have two (frame 1 followed by frame 2).
func (s *Simulator) SetPattern(slot int, v tv.Vector) error {
	nPPI := len(s.net.PPIs())
	want := nPPI
	if s.faultType == config.TransitionDelay {
		want = 2 * nPPI
	}
	if len(v) != want {
		return fmt.Errorf("simulator: pattern has %d bits, want %d", len(v), want)
	}
	v[:nPPI].Pack(s.frame1Words, slot)
	if s.faultType == config.TransitionDelay {
		v[nPPI:2*nPPI].Pack(s.frame2Words, slot)
	}
	return nil
}

// ClearPatterns resets every pattern slot of the current batch to X.
func (s *Simulator) ClearPatterns() {
	for i := range s.frame1Words {
		s.frame1Words[i] = pval.X3
	}
	for i := range s.frame2Words {
		s.frame2Words[i] = pval.X3
	}
}

// SetSkipAll and ClearSkip forward to the bound FaultDB (spec §4.4 "skip
// mechanism"); kept on Simulator so a driver only needs one handle.
func (s *Simulator) SetSkipAll()      { s.db.SetSkipAll() }
func (s *Simulator) ClearSkip()       { s.db.ClearSkipAll() }

// evalFrame loads ppiVals into the PPI nodes and evaluates every other node
// in topological order.
func (s *Simulator) evalFrame(ppiVals []pval.Val3) {
	for i, id := range s.net.PPIs() {
		s.nodes[id].val = ppiVals[i]
	}
	for _, id := range s.net.TopoOrder() {
		n := s.net.NodeByID(id)
		if n.Kind.IsPPI() {
			continue
		}
		s.nodes[id].val = s.evalNode(n)
	}
}

// evalNode computes n's value from its already-evaluated fanins. A
// PrimaryOutput/DFFInput sink node carries the zero-value GateKind (Buf)
// and exactly one fanin, so it passes its driver through unchanged without
// any special case.
func (s *Simulator) evalNode(n *circuit.Node) pval.Val3 {
	fin := make([]pval.Val3, len(n.Fanin))
	for i, f := range n.Fanin {
		fin[i] = s.nodes[f].val
	}
	return evalGate(n.Gate, fin)
}

func evalGate(kind circuit.GateKind, in []pval.Val3) pval.Val3 {
	switch kind {
	case circuit.Buf:
		return in[0]
	case circuit.Not:
		return in[0].Negate()
	case circuit.And, circuit.Nand:
		acc := in[0]
		for _, v := range in[1:] {
			acc = acc.And(v)
		}
		if kind == circuit.Nand {
			acc = acc.Negate()
		}
		return acc
	case circuit.Or, circuit.Nor:
		acc := in[0]
		for _, v := range in[1:] {
			acc = acc.Or(v)
		}
		if kind == circuit.Nor {
			acc = acc.Negate()
		}
		return acc
	case circuit.Xor, circuit.Xnor:
		acc := in[0]
		for _, v := range in[1:] {
			acc = acc.Xor(v)
		}
		if kind == circuit.Xnor {
			acc = acc.Negate()
		}
		return acc
	default:
		return pval.X3
	}
}

// simulateGood runs the good-machine evaluation for the current batch: one
// combinational pass in stuck-at mode, or the two-frame sequence of spec
// §4.4 step 1 in transition-delay mode (frame 1 establishes state and
// captures each DFF's D-input value; frame 2 consumes that captured value
// as the DFF-output word and stores frame 1's result in .prev for the
// activation-mask check).
func (s *Simulator) simulateGood() {
	if s.faultType != config.TransitionDelay {
		s.evalFrame(s.frame1Words)
		return
	}

	s.evalFrame(s.frame1Words)

	dffIns := s.net.DFFInputs()
	captured := make([]pval.Val3, len(dffIns))
	for i, id := range dffIns {
		captured[i] = s.nodes[id].val
	}
	for i := range s.nodes {
		s.nodes[i].prev = s.nodes[i].val
	}

	piCount := len(s.net.PrimaryInputs())
	frame2PPI := make([]pval.Val3, len(s.net.PPIs()))
	copy(frame2PPI[:piCount], s.frame2Words[:piCount])
	copy(frame2PPI[piCount:], captured)
	s.evalFrame(frame2PPI)
}
