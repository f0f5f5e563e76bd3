package circuit

import "sort"

// computeMFFCs merges FFRs into Maximum Fanout-Free Cones. Starting from
// each FFR root (processed in reverse topological order so a root's
// consumers are finalized first), an FFR belonging to a fanin that is
// itself an FFR root is absorbed whenever every one of that root's fanouts
// already lies inside the cone under construction — i.e. the fanin has no
// use outside this cone and so cannot be an independent sink (spec §4.1
// step 6, spec §3 "MFFC").
func computeMFFCs(net *Network) {
	posInTopo := make([]int, len(net.nodes))
	for i, id := range net.topoOrder {
		posInTopo[id] = i
	}

	ffrRootOf := make([]int, len(net.ffrs)) // ffr ID -> root node ID
	isFFRRoot := make(map[int]bool, len(net.ffrs))
	for _, f := range net.ffrs {
		ffrRootOf[f.ID] = f.Root
		isFFRRoot[f.Root] = true
	}

	order := make([]int, len(net.ffrs))
	for i, f := range net.ffrs {
		order[i] = f.Root
	}
	sort.Slice(order, func(i, j int) bool { return posInTopo[order[i]] > posInTopo[order[j]] })

	merged := make(map[int]bool, len(net.ffrs)) // ffr root ID already absorbed elsewhere
	var mffcs []*MFFC

	for _, rootID := range order {
		if merged[rootID] {
			continue
		}
		m := &MFFC{ID: len(mffcs), Root: rootID}
		memberSet := make(map[int]bool)

		var addFFR func(rootNodeID int)
		addFFR = func(rootNodeID int) {
			ffrID := net.nodes[rootNodeID].FFRID
			m.FFRs = append(m.FFRs, ffrID)
			for _, nid := range net.ffrs[ffrID].Members {
				memberSet[nid] = true
			}

			for _, nid := range net.ffrs[ffrID].Members {
				for _, finID := range net.nodes[nid].Fanin {
					if memberSet[finID] || !isFFRRoot[finID] || merged[finID] {
						continue
					}
					if finID == rootNodeID {
						continue
					}
					allInside := true
					for _, foID := range net.nodes[finID].Fanout {
						if !memberSet[foID] {
							allInside = false
							break
						}
					}
					if allInside {
						merged[finID] = true
						addFFR(finID)
					}
				}
			}
		}
		addFFR(rootID)

		for nid := range memberSet {
			m.Members = append(m.Members, nid)
		}
		sort.Slice(m.Members, func(i, j int) bool { return posInTopo[m.Members[i]] < posInTopo[m.Members[j]] })

		for _, nid := range m.Members {
			net.nodes[nid].MFFCID = m.ID
		}
		mffcs = append(mffcs, m)
	}

	net.mffcs = mffcs
}
