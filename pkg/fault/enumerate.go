package fault

import (
	"fmt"

	"github.com/fyerfyer/atpg-engine/pkg/circuit"
	"github.com/fyerfyer/atpg-engine/pkg/config"
)

// Enumerate walks every Gate node of net and generates its stem and branch
// faults, then collapses equivalent faults per spec §4.2.
//
// Collapsing rule chosen for the open equivalence question (spec §9):
// for a gate with a controlling value cv, every branch fault at cv is
// fully equivalent to the gate's stem fault at the corresponding output
// value (inverted for NAND/NOR) — both always force the same output
// regardless of the other inputs, so their detecting sets are identical.
// The stem fault at the opposite output value is only dominated (not
// equivalent) by each individual branch fault at the opposite input
// value; it is collapsed onto the first such branch as a documented,
// sound-but-inexact choice (see DESIGN.md). Single-fanin gates (Buf, Not)
// have no controlling value but their branch/stem faults are fully
// equivalent by construction, so both stem values collapse with the lone
// branch. Gates with no controlling value and arity > 1 (Xor, Xnor,
// Complex) are not collapsed at all.
func Enumerate(net *circuit.Network, ft config.FaultType) (*FaultDB, error) {
	db := &FaultDB{}

	type site struct {
		node int
		pin  int
		kind Kind
	}
	var sites []site

	for id := 0; id < net.NodeCount(); id++ {
		n := net.NodeByID(id)
		if n.Kind != circuit.GateNode {
			continue
		}
		sites = append(sites, site{node: id, kind: StemFault})
		for pin := range n.Fanin {
			sites = append(sites, site{node: id, pin: pin, kind: BranchFault})
		}
	}

	// Two passes: first create all {stuck-at-0, stuck-at-1} fault entries
	// (in transition mode each entry also records the previous-frame value
	// it requires, equal to its faulty value, so that activation in frame 2
	// needs a transition away from it), then collapse.
	type key struct {
		node int
		pin  int
		kind Kind
		val  Value
	}
	index := make(map[key]int)

	addFault := func(node, pin int, kind Kind, val Value) int {
		id := len(db.faults)
		f := Fault{ID: id, Node: node, Pin: pin, Kind: kind, StuckValue: val, Rep: id}
		if ft == config.TransitionDelay {
			f.PrevFrameValue = val
		} else {
			f.PrevFrameValue = X
		}
		db.faults = append(db.faults, f)
		index[key{node, pin, kind, val}] = id
		return id
	}

	for _, s := range sites {
		addFault(s.node, s.pin, s.kind, Zero)
		addFault(s.node, s.pin, s.kind, One)
	}

	collapse := func(from, onto int) error {
		if from < 0 || from >= len(db.faults) || onto < 0 || onto >= len(db.faults) {
			return fmt.Errorf("fault: collapse index out of range")
		}
		db.faults[from].Rep = db.faults[onto].Rep
		return nil
	}

	for id := 0; id < net.NodeCount(); id++ {
		n := net.NodeByID(id)
		if n.Kind != circuit.GateNode {
			continue
		}
		arity := len(n.Fanin)

		if cv, has := n.Gate.Controlling(); has {
			inv := 0
			if n.Gate.Inverting() {
				inv = 1
			}
			collapseVal := Value(int(Zero) + (cv ^ inv))
			dropVal := collapseVal.Opposite()
			branchCollapseVal := Value(cv)
			branchDropVal := branchCollapseVal.Opposite()

			stemCollapseID := index[key{id, 0, StemFault, collapseVal}]
			for pin := 0; pin < arity; pin++ {
				bID := index[key{id, pin, BranchFault, branchCollapseVal}]
				if err := collapse(bID, stemCollapseID); err != nil {
					return nil, err
				}
			}

			if arity > 0 {
				stemDropID := index[key{id, 0, StemFault, dropVal}]
				firstBranchID := index[key{id, 0, BranchFault, branchDropVal}]
				if err := collapse(stemDropID, firstBranchID); err != nil {
					return nil, err
				}
			}
			continue
		}

		if arity == 1 {
			inv := 0
			if n.Gate.Inverting() {
				inv = 1
			}
			// branch@v collapses onto stem@(v XOR inv); pick the stem as
			// representative for both values.
			for _, v := range []Value{Zero, One} {
				branchID := index[key{id, 0, BranchFault, v}]
				stemVal := Value(int(v) ^ inv)
				stemID := index[key{id, 0, StemFault, stemVal}]
				if err := collapse(branchID, stemID); err != nil {
					return nil, err
				}
			}
		}
		// arity != 1 with no controlling value (Xor/Xnor/Complex, or a
		// degenerate 0-fanin gate): no collapsing.
	}

	db.status = make([]Status, len(db.faults))
	db.skip = make([]bool, len(db.faults))

	// Bind every representative fault to the FFR its injection site lives
	// in, so pkg/simulator can iterate "this FFR's faults" directly (spec
	// §3 FFR.Faults, spec §4.4 step 2).
	ffrs := net.FFRs()
	for _, id := range db.Representatives() {
		f := db.ByID(id)
		ffrID := net.NodeByID(f.Node).FFRID
		if ffrID < 0 || ffrID >= len(ffrs) {
			continue
		}
		ffrs[ffrID].Faults = append(ffrs[ffrID].Faults, id)
	}

	return db, nil
}
