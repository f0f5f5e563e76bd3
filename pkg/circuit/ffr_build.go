package circuit

// computeFFRs partitions every Gate and PPI node into Fanout-Free Regions
// by scanning in reverse topological order: a node starts a new FFR iff it
// feeds a PPO, has more than one fanout, or its single fanout already
// belongs to a different FFR; otherwise it joins its fanout's FFR (spec
// §4.1 step 5).
func computeFFRs(net *Network) {
	ffrOf := make(map[int]int, len(net.nodes))
	var ffrs []*FFR

	for i := len(net.topoOrder) - 1; i >= 0; i-- {
		id := net.topoOrder[i]
		node := net.nodes[id]
		if !(node.Kind == GateNode || node.Kind.IsPPI()) {
			continue
		}

		startsNew := len(node.Fanout) != 1
		var foFFR int
		if !startsNew {
			fo := net.nodes[node.Fanout[0]]
			if fo.Kind.IsPPO() {
				startsNew = true
			} else if fid, ok := ffrOf[fo.ID]; ok {
				foFFR = fid
			} else {
				startsNew = true
			}
		}

		if startsNew {
			f := &FFR{ID: len(ffrs), Root: id, Members: []int{id}}
			ffrOf[id] = f.ID
			ffrs = append(ffrs, f)
			continue
		}
		ffrs[foFFR].Members = append(ffrs[foFFR].Members, id)
		ffrOf[id] = foFFR
	}

	for _, f := range ffrs {
		reverseInts(f.Members)
		for _, id := range f.Members {
			net.nodes[id].FFRID = f.ID
		}
	}
	net.ffrs = ffrs
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
