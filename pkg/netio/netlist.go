// Package netio defines the parsed-netlist interface the core consumes
// (spec §6 "Input formats") and two readers for it, BLIF and ISCAS89/bench.
// Netlist file parsing is an external collaborator per spec §1; this
// package pins the interface and implements just enough of each format to
// drive the core end to end.
package netio

// GateKind names a gate's function in source form, before circuit.Build
// maps it onto the internal GateKind enum.
type GateKind string

const (
	KindBuf     GateKind = "BUF"
	KindNot     GateKind = "NOT"
	KindAnd     GateKind = "AND"
	KindNand    GateKind = "NAND"
	KindOr      GateKind = "OR"
	KindNor     GateKind = "NOR"
	KindXor     GateKind = "XOR"
	KindXnor    GateKind = "XNOR"
	KindComplex GateKind = "COMPLEX"
)

// GateDef is one gate instance as named in the source netlist.
type GateDef struct {
	Name   string
	Kind   GateKind
	Output string
	Inputs []string
	// Cover holds a BLIF-style sum-of-products cover for KindComplex gates:
	// each row is a string of '0'/'1'/'-' per input, ANDed together row-wise
	// (with '-' meaning don't-care, so dropped from that row's AND) and
	// ORed across rows. nil for built-in gate kinds.
	Cover []string
}

// DFFDef is one D-flip-flop, split at NetworkBuilder time into a
// DFFOutput/DFFInput pseudo-primary pair (spec §4.1 step 1).
type DFFDef struct {
	Name    string
	Clock   string
	D       string
	Q       string
	Clear   string
	Preset  string
}

// Netlist is the already-parsed abstract network circuit.Build consumes.
type Netlist struct {
	Name    string
	Inputs  []string
	Outputs []string
	DFFs    []DFFDef
	Gates   []GateDef
}
