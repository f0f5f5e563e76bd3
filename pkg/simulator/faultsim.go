package simulator

import (
	"github.com/fyerfyer/atpg-engine/pkg/circuit"
	"github.com/fyerfyer/atpg-engine/pkg/config"
	"github.com/fyerfyer/atpg-engine/pkg/fault"
	"github.com/fyerfyer/atpg-engine/pkg/pval"
)

// valueAtSite returns the good-machine value the fault's stuck constant is
// compared against: the node's own output for a stem fault, or the value
// seen at the named fanin pin (equal to the driving node's output, since no
// buffering node sits on a fanin edge) for a branch fault.
func (s *Simulator) valueAtSite(f *fault.Fault) pval.Val3 {
	n := s.net.NodeByID(f.Node)
	if f.Kind == fault.StemFault {
		return s.nodes[f.Node].val
	}
	return s.nodes[n.Fanin[f.Pin]].val
}

// activationMask returns the bits where the good value at a fault site is
// known and differs from the fault's stuck-at constant (spec §4.4 step 2
// "activation mask").
func activationMask(good pval.Val3, stuckOne bool) pval.Val {
	faulty := pval.FromBool(true, stuckOne)
	diff := good.Xor(faulty)
	return diff.One
}

// sideMask returns the bits where no fanin of gate other than `through` is
// at gate's controlling value — the per-gate factor of spec §4.4 step 2's
// "local observability mask", computed by AND-ing this factor at every gate
// walked from an injection site up to its FFR root, and also used one gate
// at a time during global propagation.
func (s *Simulator) sideMask(gate *circuit.Node, through int) pval.Val {
	cv, has := gate.Gate.Controlling()
	if !has {
		return ^pval.Val(0)
	}
	mask := ^pval.Val(0)
	for _, finID := range gate.Fanin {
		if finID == through {
			continue
		}
		v := s.nodes[finID].val
		var atCV pval.Val
		if cv == 1 {
			atCV = v.One
		} else {
			atCV = v.Zero
		}
		mask &= ^atCV
	}
	return mask
}

// localObservabilityMask walks the unique single-fanout chain from site up
// to ffrRoot, AND-ing each gate's sideMask, per spec §4.4 step 2. The chain
// is unique because every non-root FFR member has exactly one fanout that
// stays inside the region.
func (s *Simulator) localObservabilityMask(site, ffrRoot int) pval.Val {
	mask := ^pval.Val(0)
	cur := site
	for cur != ffrRoot {
		n := s.net.NodeByID(cur)
		consumer := n.Fanout[0]
		consumerNode := s.net.NodeByID(consumer)
		mask &= s.sideMask(consumerNode, cur)
		cur = consumer
	}
	return mask
}

// prevEqualityMask returns the bits where frame 1's good value at the fault
// site equals the PrevFrameValue the fault requires (spec §4.4 step 2,
// transition-delay mode only); stuck-at faults carry fault.X and always
// pass.
func (s *Simulator) prevEqualityMask(f *fault.Fault) pval.Val {
	if f.PrevFrameValue == fault.X {
		return ^pval.Val(0)
	}
	n := s.net.NodeByID(f.Node)
	var prevVal pval.Val3
	if f.Kind == fault.StemFault {
		prevVal = s.nodes[f.Node].prev
	} else {
		prevVal = s.nodes[n.Fanin[f.Pin]].prev
	}
	want := pval.FromBool(true, f.PrevFrameValue == fault.One)
	return prevVal.Eq(want)
}

// perFaultPropagationMask combines activation, local observability, and (in
// transition mode) the previous-frame requirement into the bits on which
// this individual fault's effect reaches its FFR root.
func (s *Simulator) perFaultPropagationMask(fid int, f *circuit.FFR) pval.Val {
	flt := s.db.ByID(fid)
	good := s.valueAtSite(flt)
	mask := activationMask(good, flt.StuckValue == fault.One)
	if mask == 0 {
		return 0
	}

	gate := s.net.NodeByID(flt.Node)
	if flt.Kind == fault.BranchFault {
		// The fault sits on the wire feeding gate's pin, not on gate's
		// output, so the first hop of propagation is through gate itself:
		// every other fanin of gate must be off its controlling value.
		through := gate.Fanin[flt.Pin]
		mask &= s.sideMask(gate, through)
		if mask == 0 {
			return 0
		}
	}

	mask &= s.localObservabilityMask(flt.Node, f.Root)
	if mask == 0 {
		return 0
	}
	if s.faultType == config.TransitionDelay {
		mask &= s.prevEqualityMask(flt)
	}
	return mask
}

// propagateFromRoot runs the event-driven global propagation of spec §4.4
// steps 3-4: starting from an FFR's root carrying a combined output-event
// mask, it fans the difference out level by level, AND-ing the receiving
// gate's sideMask at every controlling-value gate and passing through
// unchanged at every other gate, until it reaches the PPOs. It returns the
// mask of pattern slots on which the difference survived to at least one
// PPO, and restores all touched state before returning.
func (s *Simulator) propagateFromRoot(root int, mask pval.Val) pval.Val {
	s.eq.reset()
	touched := []int{root}
	s.flip[root] = mask
	s.eq.push(s.net.NodeByID(root).Level, root)

	var survived pval.Val
	for s.eq.hasNext() {
		id := s.eq.pop()
		n := s.net.NodeByID(id)
		m := s.flip[id]
		if n.Kind.IsPPO() {
			survived |= m
		}
		for _, fo := range n.Fanout {
			foNode := s.net.NodeByID(fo)
			contrib := m & s.sideMask(foNode, id)
			if contrib == 0 {
				continue
			}
			if s.flip[fo] == 0 {
				touched = append(touched, fo)
			}
			s.flip[fo] |= contrib
			s.eq.push(foNode.Level, fo)
		}
	}

	for _, id := range touched {
		s.flip[id] = 0
	}
	return survived
}

// simulate runs simulateGood followed by per-FFR fault propagation,
// returning every (fault, mask) pair the filter lets through and whose
// effect survives to at least one PPO (spec §4.4 steps 2-6).
func (s *Simulator) simulate(filter func(id int) bool) []Detection {
	s.simulateGood()

	var detections []Detection
	for _, f := range s.net.FFRs() {
		type attempt struct {
			id   int
			mask pval.Val
		}
		var attempts []attempt
		var union pval.Val

		for _, fid := range f.Faults {
			if !filter(fid) {
				continue
			}
			m := s.perFaultPropagationMask(fid, f)
			if m == 0 {
				continue
			}
			attempts = append(attempts, attempt{id: fid, mask: m})
			union |= m
		}
		if union == 0 {
			continue
		}

		survival := s.propagateFromRoot(f.Root, union)
		if survival == 0 {
			continue
		}
		for _, a := range attempts {
			if final := a.mask & survival; final != 0 {
				detections = append(detections, Detection{Fault: a.id, Mask: final})
			}
		}
	}
	return detections
}
