package circuit

import (
	"fmt"
	"strings"

	"github.com/fyerfyer/atpg-engine/pkg/netio"
)

// buildComplexGate decomposes a BLIF-style on-set cover into a sum-of-
// products subtree (one AND node per cover row feeding a single OR node,
// with NOT nodes inserted ahead of any 0-literal), per spec §4.1 step 2.
// The root of the subtree is registered under the gate's own output name so
// that later fanins resolve to it transparently.
func (b *builder) buildComplexGate(g netio.GateDef) error {
	if len(g.Cover) == 0 {
		return fmt.Errorf("complex gate %q has an empty cover", g.Output)
	}

	exprMap := make(map[int]NodePos)
	var rowRoots []int

	for rowIdx, row := range g.Cover {
		fields := strings.Fields(row)
		if len(fields) != 2 {
			return fmt.Errorf("complex gate %q: malformed cover row %q", g.Output, row)
		}
		pattern, outVal := fields[0], fields[1]
		if outVal != "1" {
			return fmt.Errorf("complex gate %q: only on-set (output=1) cover rows are supported", g.Output)
		}
		if len(pattern) != len(g.Inputs) {
			return fmt.Errorf("complex gate %q: cover row %q has width %d, want %d", g.Output, row, len(pattern), len(g.Inputs))
		}

		var active []int
		for i, c := range pattern {
			if c != '-' {
				active = append(active, i)
			}
		}
		if len(active) == 0 {
			return fmt.Errorf("complex gate %q: cover row %q has no literals", g.Output, row)
		}

		andNode := b.newNode(GateNode, fmt.Sprintf("%s$and%d", g.Output, rowIdx), len(active))
		andNode.Gate = And
		for slot, i := range active {
			if pattern[i] == '1' {
				b.addPending(andNode.ID, slot, g.Inputs[i])
				if _, seen := exprMap[i]; !seen {
					exprMap[i] = NodePos{andNode.ID, slot}
				}
				continue
			}
			notNode := b.newNode(GateNode, fmt.Sprintf("%s$not%d_%d", g.Output, rowIdx, i), 1)
			notNode.Gate = Not
			b.addPending(notNode.ID, 0, g.Inputs[i])
			andNode.Fanin[slot] = notNode.ID
			if _, seen := exprMap[i]; !seen {
				exprMap[i] = NodePos{notNode.ID, 0}
			}
		}
		rowRoots = append(rowRoots, andNode.ID)
	}

	rootID := rowRoots[0]
	if len(rowRoots) > 1 {
		orNode := b.newNode(GateNode, g.Output+"$or", len(rowRoots))
		orNode.Gate = Or
		copy(orNode.Fanin, rowRoots)
		rootID = orNode.ID
	}

	root := b.nodes[rootID]
	root.Name = g.Output
	root.ExprMap = exprMap
	return b.registerDriver(g.Output, rootID)
}
