package circuit

// Network is the immutable post-build view of a circuit: nodes, fanin/
// fanout, levels, FFRs, and MFFCs (spec §3 "Network"). It is built once by
// Build and is read-only thereafter.
type Network struct {
	nodes []*Node

	primaryInputs  []int
	dffOutputs     []int
	primaryOutputs []int
	dffInputs      []int

	topoOrder []int
	maxLevel  int

	ffrs  []*FFR
	mffcs []*MFFC

	idom []int // immediate dominator per node ID, -1 if none
}

// NodeByID returns the node with the given ID. It panics on an out-of-range
// ID: a Network's node IDs are dense [0, NodeCount), so a caller holding an
// ID from any Network query never triggers this.
func (n *Network) NodeByID(id int) *Node { return n.nodes[id] }

// NodeCount returns the number of nodes in the network.
func (n *Network) NodeCount() int { return len(n.nodes) }

// PrimaryInputs returns the primary input node IDs in declaration order.
func (n *Network) PrimaryInputs() []int { return n.primaryInputs }

// DFFOutputs returns the DFF-output (Q) node IDs.
func (n *Network) DFFOutputs() []int { return n.dffOutputs }

// PPIs returns primary inputs followed by DFF outputs — the pseudo primary
// inputs of the two-frame model.
func (n *Network) PPIs() []int {
	out := make([]int, 0, len(n.primaryInputs)+len(n.dffOutputs))
	out = append(out, n.primaryInputs...)
	out = append(out, n.dffOutputs...)
	return out
}

// PrimaryOutputs returns the primary output node IDs.
func (n *Network) PrimaryOutputs() []int { return n.primaryOutputs }

// DFFInputs returns the DFF-input (D) node IDs.
func (n *Network) DFFInputs() []int { return n.dffInputs }

// PPOs returns primary outputs followed by DFF inputs — the pseudo primary
// outputs of the two-frame model.
func (n *Network) PPOs() []int {
	out := make([]int, 0, len(n.primaryOutputs)+len(n.dffInputs))
	out = append(out, n.primaryOutputs...)
	out = append(out, n.dffInputs...)
	return out
}

// TopoOrder returns all nodes in a topologically sorted order (every
// fanin before its fanout).
func (n *Network) TopoOrder() []int { return n.topoOrder }

// MaxLevel returns the maximum level assigned to any node.
func (n *Network) MaxLevel() int { return n.maxLevel }

// FFRs returns every Fanout-Free Region computed for this network.
func (n *Network) FFRs() []*FFR { return n.ffrs }

// MFFCs returns every Maximum Fanout-Free Cone computed for this network.
func (n *Network) MFFCs() []*MFFC { return n.mffcs }

// ImmediateDominator returns the node ID that immediately dominates id, or
// -1 if id has no dominator (a PPO, or a node whose paths to the outputs
// share no common node).
func (n *Network) ImmediateDominator(id int) int { return n.idom[id] }
