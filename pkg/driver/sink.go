package driver

import (
	"github.com/fyerfyer/atpg-engine/pkg/atpglog"
	"github.com/fyerfyer/atpg-engine/pkg/dtpg"
	"github.com/fyerfyer/atpg-engine/pkg/fault"
	"github.com/fyerfyer/atpg-engine/pkg/simulator"
	"github.com/fyerfyer/atpg-engine/pkg/tv"
)

// SinkKind is one action taken when a fault attempt produces an Outcome
// (spec §9 "Operator-overload DetectOp / UntestOp chains": a closed enum of
// sinks processed in order, not a plug-in interface).
type SinkKind int

const (
	// RecordStatus writes the (possibly Verify-adjusted) outcome status
	// into the FaultDB.
	RecordStatus SinkKind = iota
	// DropWithSimulator sets the simulator's skip flag once a fault has
	// reached a terminal status, so later PPSFP batches stop considering it.
	DropWithSimulator
	// AppendToVectorList appends a Detected outcome's pattern to Patterns.
	AppendToVectorList
	// Verify re-simulates a Detected outcome's pattern against its own
	// fault before trusting the status, grounded on the original engine's
	// DopVerify.cc (spec §8 "DTPG-Simulator consistency").
	Verify
)

// Sink is one entry of the detect-op chain, processed in order for every
// fault attempt (spec §9).
type Sink struct {
	Kind SinkKind
	// Patterns receives AppendToVectorList's output; ignored by every
	// other Kind.
	Patterns *[]tv.Vector
}

// applySinks runs sinks in order over one fault's Outcome, returning the
// status actually committed (which Verify may downgrade from Detected to
// Aborted when resimulation disagrees with DTPG).
func applySinks(sinks []Sink, faultID int, outcome dtpg.Outcome, db *fault.FaultDB, sim *simulator.Simulator, log *atpglog.Logger) fault.Status {
	status := outcome.Status
	for _, sink := range sinks {
		switch sink.Kind {
		case Verify:
			if status != fault.Detected {
				continue
			}
			ok, err := sim.Spsfp(outcome.Pattern, faultID)
			if err != nil {
				log.Error("dop_verify: resimulation failed", "fault", faultID, "err", err)
				status = fault.Aborted
				continue
			}
			if !ok {
				log.Warn("dop_verify: generated pattern did not detect its own fault under resimulation", "fault", faultID)
				status = fault.Aborted
			}
		case RecordStatus:
			db.SetStatus(faultID, status)
		case DropWithSimulator:
			if status == fault.Detected || status == fault.Untestable {
				db.SetSkip(faultID, true)
			}
		case AppendToVectorList:
			if status == fault.Detected && sink.Patterns != nil {
				*sink.Patterns = append(*sink.Patterns, outcome.Pattern)
			}
		}
	}
	return status
}

// DefaultSinks is the sink chain a plain driver run wires by default:
// verify every Detected outcome, record the (possibly downgraded) status,
// collect detected patterns, and drop terminal faults from later batches.
func DefaultSinks(patterns *[]tv.Vector) []Sink {
	return []Sink{
		{Kind: Verify},
		{Kind: RecordStatus},
		{Kind: AppendToVectorList, Patterns: patterns},
		{Kind: DropWithSimulator},
	}
}
