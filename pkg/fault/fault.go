// Package fault enumerates and tracks stuck-at and transition-delay faults
// over a built circuit.Network (spec §3 "Fault", spec §4.2 "FaultDB").
package fault

// Value is a single logic value, with X standing in for "don't care" in a
// transition fault's unused previous-frame slot.
type Value int8

const (
	Zero Value = iota
	One
	X
)

func (v Value) String() string {
	switch v {
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return "X"
	}
}

// Opposite returns 1-v for Zero/One; X maps to X.
func (v Value) Opposite() Value {
	switch v {
	case Zero:
		return One
	case One:
		return Zero
	default:
		return X
	}
}

// Kind distinguishes a stem fault (at a gate's output) from a branch fault
// (at one of its fanin pins).
type Kind int

const (
	StemFault Kind = iota
	BranchFault
)

// Status is a fault's externally tracked, monotone lifecycle state (spec
// §4.2 "Status store").
type Status int

const (
	Undetected Status = iota
	Detected
	Untestable
	Aborted
)

func (s Status) String() string {
	switch s {
	case Undetected:
		return "undetected"
	case Detected:
		return "detected"
	case Untestable:
		return "untestable"
	case Aborted:
		return "aborted"
	default:
		return "?"
	}
}

// Fault is one stuck-at or transition-delay fault site.
type Fault struct {
	ID   int
	Node int // circuit.Node ID the fault sits on
	Pin  int // fanin index for BranchFault; unused (0) for StemFault
	Kind Kind

	StuckValue Value // target (faulty) value

	// PrevFrameValue is the value frame 1 must hold for a transition fault
	// to be activated in frame 2; X in stuck-at mode (spec §4.2).
	PrevFrameValue Value

	// Rep is this fault's own ID if it is a representative, or the ID of
	// the fault it collapses into otherwise (spec §4.2 "Equivalence
	// collapsing").
	Rep int
}

// IsRepresentative reports whether f stands for its own equivalence class.
func (f *Fault) IsRepresentative() bool { return f.Rep == f.ID }

// FaultDB owns every enumerated Fault and its mutable Status; it is bound
// to exactly one Network (spec §3 "Ownership").
type FaultDB struct {
	faults []Fault
	status []Status
	skip   []bool
}

// Count returns the total number of faults, representative or not.
func (db *FaultDB) Count() int { return len(db.faults) }

// ByID returns the fault with the given ID.
func (db *FaultDB) ByID(id int) *Fault { return &db.faults[id] }

// Status returns the current status of fault id.
func (db *FaultDB) Status(id int) Status { return db.status[id] }

// SetStatus transitions fault id to a terminal status. The driver is the
// sole caller permitted to mutate status (spec §4.2, spec §5 "Shared-
// resource policy").
func (db *FaultDB) SetStatus(id int, s Status) { db.status[id] = s }

// Skip reports whether fault id currently carries the transient skip flag
// (spec §4.4 "Skip mechanism").
func (db *FaultDB) Skip(id int) bool { return db.skip[id] }

// SetSkip sets or clears the transient skip flag for fault id.
func (db *FaultDB) SetSkip(id int, skip bool) { db.skip[id] = skip }

// SetSkipAll sets the skip flag on every fault.
func (db *FaultDB) SetSkipAll() {
	for i := range db.skip {
		db.skip[i] = true
	}
}

// ClearSkipAll clears the skip flag on every fault.
func (db *FaultDB) ClearSkipAll() {
	for i := range db.skip {
		db.skip[i] = false
	}
}

// All returns every fault, representative or not.
func (db *FaultDB) All() []Fault { return db.faults }

// Representatives returns the IDs of faults that stand for their own
// equivalence class (spec §4.2 "Clients iterate representative faults
// only").
func (db *FaultDB) Representatives() []int {
	var out []int
	for i := range db.faults {
		if db.faults[i].IsRepresentative() {
			out = append(out, i)
		}
	}
	return out
}
