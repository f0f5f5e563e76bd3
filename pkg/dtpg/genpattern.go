package dtpg

import (
	"time"

	"github.com/fyerfyer/atpg-engine/pkg/config"
	"github.com/fyerfyer/atpg-engine/pkg/fault"
	"github.com/fyerfyer/atpg-engine/pkg/justify"
	"github.com/fyerfyer/atpg-engine/pkg/sat"
	"github.com/fyerfyer/atpg-engine/pkg/tv"
)

// encoding is the per-attempt CNF state: variable maps over every node the
// formula touches (spec §4.5 "Variables").
type encoding struct {
	solver    *countingSolver
	g         map[int]int
	f         map[int]int
	d         map[int]int
	h         map[int]int
	members   map[int]bool
	terminalD int // the D variable at the chain's far end, kept for Stats/debugging
}

func (h *Handle) buildEncoding(flt *fault.Fault) *encoding {
	solver := &countingSolver{Solver: sat.NewDPLLSolver()}
	e := &encoding{
		solver:  solver,
		g:       make(map[int]int),
		f:       make(map[int]int),
		d:       make(map[int]int),
		members: make(map[int]bool, len(h.members)),
	}
	for _, id := range h.members {
		e.members[id] = true
	}

	newVar := func() int { return solver.NewVar() }

	boundaryVar := func(id int) int {
		if v, ok := e.g[id]; ok {
			return v
		}
		v := newVar()
		e.g[id] = v
		e.f[id] = v // no diff can originate outside the scope
		return v
	}

	for _, id := range h.members {
		n := h.net.NodeByID(id)
		if n.Kind.IsPPI() {
			boundaryVar(id)
			continue
		}
		faninG := make([]int, len(n.Fanin))
		faninF := make([]int, len(n.Fanin))
		for i, fin := range n.Fanin {
			if e.members[fin] {
				faninG[i] = e.g[fin]
				faninF[i] = e.f[fin]
			} else {
				v := boundaryVar(fin)
				faninG[i] = v
				faninF[i] = v
			}
		}

		gv := newVar()
		e.g[id] = gv
		encodeGate(solver, newVar, n.Gate, gv, faninG)

		fv := newVar()
		e.f[id] = fv
		if flt.Node == id && flt.Kind == fault.StemFault {
			solver.AddClause(sat.Lit(fv, flt.StuckValue != fault.One))
		} else if flt.Node == id && flt.Kind == fault.BranchFault {
			stuckVar := newVar()
			solver.AddClause(sat.Lit(stuckVar, flt.StuckValue != fault.One))
			overridden := make([]int, len(faninF))
			copy(overridden, faninF)
			overridden[flt.Pin] = stuckVar
			encodeGate(solver, newVar, n.Gate, fv, overridden)
		} else {
			encodeGate(solver, newVar, n.Gate, fv, faninF)
		}

		dv := newVar()
		e.d[id] = dv
		encodeXor2(solver, dv, gv, fv)
	}

	// Difference propagation beyond the scope root, via the single
	// dominator-chain implication spec §4.5 clause 3 allows in place of a
	// full disjunction over every downstream fanout.
	prevD := e.d[h.root]
	cur := h.root
	for {
		next := h.net.ImmediateDominator(cur)
		if next == -1 {
			e.terminalD = prevD
			break
		}
		nd, ok := e.d[next]
		if !ok {
			nd = newVar()
			e.d[next] = nd
		}
		solver.AddClause(sat.Lit(prevD, true), sat.Lit(nd, false))
		prevD = nd
		cur = next
		if h.net.NodeByID(next).Kind.IsPPO() {
			e.terminalD = nd
			break
		}
	}
	// Assert the chain's source true, not its tip: d[root] is the fault
	// effect itself, and the forward implications (prevD -> nd) carry it
	// out to terminalD. Asserting only the tip would leave d[root] free to
	// be false, satisfying the formula without ever activating the fault.
	solver.AddClause(sat.Lit(e.d[h.root], false))

	if h.faultType == config.TransitionDelay {
		e.h = make(map[int]int)
		hBoundary := func(id int) int {
			if v, ok := e.h[id]; ok {
				return v
			}
			v := newVar()
			e.h[id] = v
			return v
		}
		for _, id := range h.members {
			n := h.net.NodeByID(id)
			if n.Kind.IsPPI() {
				hBoundary(id)
				continue
			}
			faninH := make([]int, len(n.Fanin))
			for i, fin := range n.Fanin {
				if e.members[fin] {
					faninH[i] = e.h[fin]
				} else {
					faninH[i] = hBoundary(fin)
				}
			}
			hv := newVar()
			e.h[id] = hv
			encodeGate(solver, newVar, n.Gate, hv, faninH)
		}
		if flt.PrevFrameValue != fault.X {
			site := flt.Node
			if flt.Kind == fault.BranchFault {
				site = h.net.NodeByID(flt.Node).Fanin[flt.Pin]
			}
			if hv, ok := e.h[site]; ok {
				solver.AddClause(sat.Lit(hv, flt.PrevFrameValue != fault.One))
			}
		}
	}

	return e
}

// GenPattern runs the per-fault attempt loop of spec §4.5: encode, solve,
// and on SAT justify a TestVector; on UNSAT report Untestable; on
// timeout/conflict-budget exhaustion report Aborted.
func (h *Handle) GenPattern(faultID int, jk config.JustifierKind, budget sat.Budget) Outcome {
	flt := h.db.ByID(faultID)
	e := h.buildEncoding(flt)

	start := time.Now()
	outcome, model := e.solver.Solve(nil, budget)
	elapsed := time.Since(start)

	nVars := len(e.g) + len(e.f) + len(e.d) + len(e.h)

	switch outcome {
	case sat.Unsat:
		h.Stats.record(fault.Untestable, nVars, e.solver.clauses, elapsed)
		return Outcome{Status: fault.Untestable}
	case sat.Aborted:
		h.Stats.record(fault.Aborted, nVars, e.solver.clauses, elapsed)
		return Outcome{Status: fault.Aborted}
	}

	pattern := h.justifyModel(e, model, jk)
	h.Stats.record(fault.Detected, nVars, e.solver.clauses, elapsed)
	return Outcome{Status: fault.Detected, Pattern: pattern}
}

// GenKPatterns implements spec §4.5's K-pattern variant: after each
// Detected outcome, it blocks the PPI-restricted assignment just found and
// re-solves, repeating up to k times. Only the first solve can contribute
// an Untestable or Aborted outcome; a later re-solve that finds no new
// assignment ends the loop without adding one.
func (h *Handle) GenKPatterns(faultID int, jk config.JustifierKind, budget sat.Budget, k int) []Outcome {
	flt := h.db.ByID(faultID)
	var out []Outcome
	var blocked [][]int

	for i := 0; i < k; i++ {
		e := h.buildEncoding(flt)
		for _, clause := range blocked {
			e.solver.AddClause(clause...)
		}

		start := time.Now()
		outcome, model := e.solver.Solve(nil, budget)
		elapsed := time.Since(start)
		nVars := len(e.g) + len(e.f) + len(e.d) + len(e.h)

		if outcome != sat.Sat {
			status := fault.Untestable
			if outcome == sat.Aborted {
				status = fault.Aborted
			}
			h.Stats.record(status, nVars, e.solver.clauses, elapsed)
			if i == 0 {
				out = append(out, Outcome{Status: status})
			}
			break
		}

		pattern := h.justifyModel(e, model, jk)
		h.Stats.record(fault.Detected, nVars, e.solver.clauses, elapsed)
		out = append(out, Outcome{Status: fault.Detected, Pattern: pattern})

		// Block this assignment restricted to the scope's free variables —
		// the boundary variables and the PPIs inside the scope, the only
		// vars with genuine SAT-level choice, since every other member's g
		// is functionally forced once they are fixed (spec §4.5 "blocking
		// clause restricted to PPIs").
		clause := make([]int, 0, len(e.g))
		for id, gv := range e.g {
			if e.members[id] && !h.net.NodeByID(id).Kind.IsPPI() {
				continue
			}
			clause = append(clause, sat.Lit(gv, model[gv]))
		}
		blocked = append(blocked, clause)
	}
	return out
}

func (h *Handle) justifyModel(e *encoding, model sat.Model, jk config.JustifierKind) tv.Vector {
	assignments := make([]justify.NodeValue, 0, len(e.g))
	modelValues := make(map[int]tv.Bit, len(e.g))
	for id, gv := range e.g {
		val := tv.Zero
		if model[gv] {
			val = tv.One
		}
		modelValues[id] = val
	}
	for _, id := range h.members {
		assignments = append(assignments, justify.NodeValue{Node: id, Value: modelValues[id]})
	}

	var kind justify.Kind
	switch jk {
	case config.JustifyAll:
		kind = justify.All
	case config.JustifyMinSupportBest:
		kind = justify.MinSupportBest
	default:
		kind = justify.MinSupportSingle
	}
	pattern := justify.Justify(kind, h.net, assignments, modelValues)
	if e.h == nil {
		return pattern
	}
	// Transition mode: frame 1 is each PPI's h value (X if it has none),
	// frame 2 the justified pattern.
	ppis := h.net.PPIs()
	out := tv.New(2 * len(ppis))
	for i, id := range ppis {
		if hv, ok := e.h[id]; ok && model[hv] {
			out[i] = tv.One
		} else if ok {
			out[i] = tv.Zero
		}
		out[len(ppis)+i] = pattern[i]
	}
	return out
}
