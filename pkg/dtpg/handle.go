// Package dtpg implements the SAT-based test pattern generator (spec §4.5):
// a Tseitin CNF encoder over one FFR or MFFC scope, driven once per fault
// attempt.
package dtpg

import (
	"fmt"
	"time"

	"github.com/fyerfyer/atpg-engine/pkg/circuit"
	"github.com/fyerfyer/atpg-engine/pkg/config"
	"github.com/fyerfyer/atpg-engine/pkg/fault"
	"github.com/fyerfyer/atpg-engine/pkg/tv"
)

// Outcome is the tagged result of one fault attempt (spec §6 "Result
// objects": Outcome is a tagged union { Detected(TestVector), Untestable,
// Aborted }).
type Outcome struct {
	Status  fault.Status
	Pattern tv.Vector // valid only when Status == fault.Detected
}

// Stats accumulates CNF size, wall-clock solve time, and outcome counts
// across every attempt run through this Handle (spec §4.5 "Statistics").
// The chosen sat.Solver interface does not surface restarts / conflicts /
// decisions / propagations, so those spec-named fields are
// represented here as the coarser totals the interface actually supports.
type Stats struct {
	Attempts       int
	Detected       int
	Untestable     int
	Aborted        int
	TotalVars      int
	TotalClauses   int
	TotalSolveTime time.Duration
}

func (s *Stats) record(status fault.Status, vars, clauses int, dur time.Duration) {
	s.Attempts++
	switch status {
	case fault.Detected:
		s.Detected++
	case fault.Untestable:
		s.Untestable++
	case fault.Aborted:
		s.Aborted++
	}
	s.TotalVars += vars
	s.TotalClauses += clauses
	s.TotalSolveTime += dur
}

// Handle is one encoding scope, bound to a single FFR or MFFC, that every
// fault inside it is attempted against (spec §4.5 "Two encoding scopes").
//
// Each GenPattern call builds and solves a fresh per-fault CNF rather than
// reusing one formula shared across every fault in the region (a
// deliberate simplification of spec §4.5's sharing optimization — see
// DESIGN.md: with a single deterministic fault site known up front, the
// fault-site clause never needs the mux/selector machinery a truly shared
// formula would require, and result correctness is identical either way).
type Handle struct {
	net       *circuit.Network
	db        *fault.FaultDB
	faultType config.FaultType
	mode      config.ScopeMode
	members   []int
	root      int
	Stats     *Stats
}

// Encode builds a Handle over FFR regionID (mode == config.ScopeFFR) or
// MFFC regionID (mode == config.ScopeMFFC).
func Encode(net *circuit.Network, db *fault.FaultDB, faultType config.FaultType, mode config.ScopeMode, regionID int) (*Handle, error) {
	var members []int
	var root int

	switch mode {
	case config.ScopeFFR:
		ffrs := net.FFRs()
		if regionID < 0 || regionID >= len(ffrs) {
			return nil, fmt.Errorf("dtpg: FFR region %d out of range", regionID)
		}
		members = ffrs[regionID].Members
		root = ffrs[regionID].Root
	case config.ScopeMFFC:
		mffcs := net.MFFCs()
		if regionID < 0 || regionID >= len(mffcs) {
			return nil, fmt.Errorf("dtpg: MFFC region %d out of range", regionID)
		}
		members = mffcs[regionID].Members
		root = mffcs[regionID].Root
	default:
		return nil, fmt.Errorf("dtpg: unknown scope mode %q", mode)
	}

	return &Handle{
		net:       net,
		db:        db,
		faultType: faultType,
		mode:      mode,
		members:   members,
		root:      root,
		Stats:     &Stats{},
	}, nil
}
