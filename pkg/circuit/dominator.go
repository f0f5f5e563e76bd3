package circuit

// computeDominators assigns each node its immediate post-dominator: the
// node that every path from it to a primary output must pass through next
// (spec §4.1 step 7, used by DTPG to short-circuit propagation clauses per
// spec §4.5). It runs the iterative Cooper/Harvey/Kennedy algorithm over
// the reversed graph, with a virtual sink feeding from every PPO.
func computeDominators(net *Network) {
	n := len(net.nodes)
	const sink = -1

	rpo := make([]int, n)
	for i, id := range net.topoOrder {
		rpo[n-1-i] = id // outputs first
	}
	rpoPos := make([]int, n)
	for i, id := range rpo {
		rpoPos[id] = i
	}

	idom := make(map[int]int, n+1)
	idom[sink] = sink

	preds := func(id int) []int {
		node := net.nodes[id]
		if len(node.Fanout) == 0 {
			return []int{sink}
		}
		return node.Fanout
	}

	earlier := func(a, b int) bool {
		if a == sink {
			return true
		}
		if b == sink {
			return false
		}
		return rpoPos[a] < rpoPos[b]
	}

	intersect := func(a, b int) int {
		for a != b {
			for earlier(b, a) {
				next, ok := idom[a]
				if !ok {
					return sink
				}
				a = next
			}
			for earlier(a, b) {
				next, ok := idom[b]
				if !ok {
					return sink
				}
				b = next
			}
		}
		return a
	}

	changed := true
	for changed {
		changed = false
		for _, id := range rpo {
			var newIdom int
			found := false
			for _, p := range preds(id) {
				if _, ok := idom[p]; !ok {
					continue
				}
				if !found {
					newIdom = p
					found = true
					continue
				}
				newIdom = intersect(newIdom, p)
			}
			if !found {
				continue
			}
			if cur, ok := idom[id]; !ok || cur != newIdom {
				idom[id] = newIdom
				changed = true
			}
		}
	}

	result := make([]int, n)
	for i := range result {
		result[i] = -1
	}
	for id, d := range idom {
		if id != sink && d != sink {
			result[id] = d
		}
	}
	net.idom = result
}
