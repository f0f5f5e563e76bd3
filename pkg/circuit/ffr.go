package circuit

// FFR is a maximal Fanout-Free Region: every member node has exactly one
// fanout that stays inside the region, except the single Root (spec §3
// "FFR").
type FFR struct {
	ID      int
	Root    int
	Members []int // topological order, root last
	// Faults is populated by pkg/fault once a FaultDB is bound to this
	// Network; it holds the IDs of faults whose injection site lies inside.
	Faults []int
}

// MFFC is a Maximum Fanout-Free Cone: a maximal cone whose only external
// sink is its Root. Every MFFC contains one or more FFRs (spec §3 "MFFC").
type MFFC struct {
	ID      int
	Root    int
	FFRs    []int // FFR IDs contained, root's FFR first
	Members []int // topological order, root last
}
