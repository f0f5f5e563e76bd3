package circuit

import (
	"fmt"

	"github.com/fyerfyer/atpg-engine/pkg/netio"
)

// BuildError reports a netlist that fails the acyclicity or level-
// completeness invariants (spec §7 "Build-invariant violation"): fatal, no
// partial Network is ever returned.
type BuildError struct{ Reason string }

func (e *BuildError) Error() string { return "circuit: build invariant violated: " + e.Reason }

type pendingFanin struct {
	nodeID int
	pos    int
	name   string
}

// builder accumulates mutable state while running the seven build steps of
// spec §4.1; Build discards it once the immutable Network is assembled.
type builder struct {
	nodes    []*Node
	nameToID map[string]int
	pending  []pendingFanin
}

func (b *builder) newNode(kind NodeKind, name string, arity int) *Node {
	n := &Node{ID: len(b.nodes), Name: name, Kind: kind, FFRID: -1, MFFCID: -1}
	if arity > 0 {
		n.Fanin = make([]int, arity)
	}
	b.nodes = append(b.nodes, n)
	return n
}

func (b *builder) registerDriver(name string, id int) error {
	if _, exists := b.nameToID[name]; exists {
		return fmt.Errorf("net %q has more than one driver", name)
	}
	b.nameToID[name] = id
	return nil
}

func (b *builder) addPending(nodeID, pos int, name string) {
	b.pending = append(b.pending, pendingFanin{nodeID, pos, name})
}

func mapGateKind(k netio.GateKind) (GateKind, error) {
	switch k {
	case netio.KindBuf:
		return Buf, nil
	case netio.KindNot:
		return Not, nil
	case netio.KindAnd:
		return And, nil
	case netio.KindNand:
		return Nand, nil
	case netio.KindOr:
		return Or, nil
	case netio.KindNor:
		return Nor, nil
	case netio.KindXor:
		return Xor, nil
	case netio.KindXnor:
		return Xnor, nil
	default:
		return 0, fmt.Errorf("unsupported gate kind %q", k)
	}
}

// Build runs the seven-step NetworkBuilder algorithm of spec §4.1 over an
// already-parsed netlist and returns an immutable Network, or a
// *BuildError if any invariant fails.
func Build(nl *netio.Netlist) (*Network, error) {
	b := &builder{nameToID: make(map[string]int)}

	// Step 1: primary inputs and DFF outputs (Q) drive nets immediately;
	// DFF is split into an output-PPI and an input-PPO (spec §4.1 step 1).
	for _, name := range nl.Inputs {
		n := b.newNode(PrimaryInput, name, 0)
		if err := b.registerDriver(name, n.ID); err != nil {
			return nil, &BuildError{Reason: err.Error()}
		}
	}
	for _, dff := range nl.DFFs {
		n := b.newNode(DFFOutput, dff.Q, 0)
		if err := b.registerDriver(dff.Q, n.ID); err != nil {
			return nil, &BuildError{Reason: err.Error()}
		}
	}

	// Step 1/2: gates, decomposing Complex covers as we go.
	for _, g := range nl.Gates {
		if g.Kind == netio.KindComplex {
			if err := b.buildComplexGate(g); err != nil {
				return nil, &BuildError{Reason: err.Error()}
			}
			continue
		}
		kind, err := mapGateKind(g.Kind)
		if err != nil {
			return nil, &BuildError{Reason: err.Error()}
		}
		n := b.newNode(GateNode, g.Output, len(g.Inputs))
		n.Gate = kind
		for i, in := range g.Inputs {
			b.addPending(n.ID, i, in)
		}
		if err := b.registerDriver(g.Output, n.ID); err != nil {
			return nil, &BuildError{Reason: err.Error()}
		}
	}

	// Primary outputs and DFF inputs are pure sinks: they observe a net but
	// never drive one themselves.
	for _, name := range nl.Outputs {
		n := b.newNode(PrimaryOutput, name, 1)
		b.addPending(n.ID, 0, name)
	}
	for _, dff := range nl.DFFs {
		n := b.newNode(DFFInput, dff.Name+"/D", 1)
		b.addPending(n.ID, 0, dff.D)
	}

	for _, p := range b.pending {
		id, ok := b.nameToID[p.name]
		if !ok {
			return nil, &BuildError{Reason: fmt.Sprintf("net %q has no driver", p.name)}
		}
		b.nodes[p.nodeID].Fanin[p.pos] = id
	}

	net := &Network{nodes: b.nodes}
	for _, name := range nl.Inputs {
		net.primaryInputs = append(net.primaryInputs, b.nameToID[name])
	}
	for _, dff := range nl.DFFs {
		net.dffOutputs = append(net.dffOutputs, b.nameToID[dff.Q])
	}
	for _, n := range b.nodes {
		switch n.Kind {
		case PrimaryOutput:
			net.primaryOutputs = append(net.primaryOutputs, n.ID)
		case DFFInput:
			net.dffInputs = append(net.dffInputs, n.ID)
		}
	}

	// Step 3: fanouts.
	for _, n := range net.nodes {
		for _, f := range n.Fanin {
			net.nodes[f].Fanout = append(net.nodes[f].Fanout, n.ID)
		}
	}

	// Step 4: levels (also yields a topological order).
	if err := computeLevels(net); err != nil {
		return nil, err
	}

	// Step 5/6: FFRs and MFFCs.
	computeFFRs(net)
	computeMFFCs(net)

	// Step 7: immediate (post-)dominators.
	computeDominators(net)

	return net, nil
}

// computeLevels assigns net.nodes[*].Level via Kahn's algorithm (indegree =
// fanin count), which yields a topological order as a side effect and
// detects any cycle that would violate spec §4.1's acyclicity invariant.
func computeLevels(net *Network) error {
	n := len(net.nodes)
	indeg := make([]int, n)
	for _, node := range net.nodes {
		indeg[node.ID] = len(node.Fanin)
	}

	queue := make([]int, 0, n)
	for id, d := range indeg {
		if d == 0 {
			queue = append(queue, id)
		}
	}

	topo := make([]int, 0, n)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		node := net.nodes[id]

		level := 0
		for _, f := range node.Fanin {
			if lv := net.nodes[f].Level + 1; lv > level {
				level = lv
			}
		}
		node.Level = level
		if level > net.maxLevel {
			net.maxLevel = level
		}
		topo = append(topo, id)

		for _, fo := range node.Fanout {
			indeg[fo]--
			if indeg[fo] == 0 {
				queue = append(queue, fo)
			}
		}
	}

	if len(topo) != n {
		return &BuildError{Reason: "cycle detected: levelization did not reach every node (DFF boundaries must cut all sequential loops)"}
	}
	net.topoOrder = topo
	return nil
}
