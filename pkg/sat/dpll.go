package sat

import "time"

// DPLLSolver is the Solver shipped with this package: a small recursive
// DPLL with unit propagation, pure-literal elimination, and chronological
// backtracking bounded by a conflict counter (spec's DTPG component
// description — adequate for the per-FFR/per-MFFC CNF sizes this engine
// produces, not a production CDCL solver).
type DPLLSolver struct {
	nVars   int
	clauses [][]int
}

// NewDPLLSolver returns an empty solver ready to accept variables and
// clauses.
func NewDPLLSolver() *DPLLSolver { return &DPLLSolver{} }

func (s *DPLLSolver) NewVar() int {
	id := s.nVars
	s.nVars++
	return id
}

func (s *DPLLSolver) AddClause(lits ...int) {
	c := make([]int, len(lits))
	copy(c, lits)
	s.clauses = append(s.clauses, c)
}

// solveState is the mutable search state for one Solve call; clauses and
// variable count are read-only snapshots of the solver at call time.
type solveState struct {
	assign       []int8 // 0 unassigned, 1 true, 2 false
	trail        []int
	conflicts    int
	maxConflicts int
	deadline     time.Time
	hasDeadline  bool
	clauses      [][]int
}

func (st *solveState) litTrue(lit int) bool {
	switch st.assign[Var(lit)] {
	case 1:
		return !Negated(lit)
	case 2:
		return Negated(lit)
	default:
		return false
	}
}

func (st *solveState) litFalse(lit int) bool {
	switch st.assign[Var(lit)] {
	case 1:
		return Negated(lit)
	case 2:
		return !Negated(lit)
	default:
		return false
	}
}

func (st *solveState) assignVar(v int, val bool) {
	if val {
		st.assign[v] = 1
	} else {
		st.assign[v] = 2
	}
	st.trail = append(st.trail, v)
}

// propagate runs unit propagation to fixpoint; false means a conflict was
// found (some clause has every literal false).
func (st *solveState) propagate() bool {
	for {
		changed := false
		for _, c := range st.clauses {
			satisfied := false
			unassignedCount := 0
			var lastUnassigned int
			for _, lit := range c {
				if st.litTrue(lit) {
					satisfied = true
					break
				}
				if !st.litFalse(lit) {
					unassignedCount++
					lastUnassigned = lit
				}
			}
			if satisfied {
				continue
			}
			if unassignedCount == 0 {
				return false
			}
			if unassignedCount == 1 {
				st.assignVar(Var(lastUnassigned), !Negated(lastUnassigned))
				changed = true
			}
		}
		if !changed {
			return true
		}
	}
}

// pureLiteralAssign assigns every unassigned variable that appears with
// only one polarity across all not-yet-satisfied clauses. Returns true if
// it assigned anything, so the caller can re-run propagate.
func (st *solveState) pureLiteralAssign() bool {
	posSeen := make([]bool, len(st.assign))
	negSeen := make([]bool, len(st.assign))
	for _, c := range st.clauses {
		satisfied := false
		for _, lit := range c {
			if st.litTrue(lit) {
				satisfied = true
				break
			}
		}
		if satisfied {
			continue
		}
		for _, lit := range c {
			v := Var(lit)
			if st.assign[v] != 0 {
				continue
			}
			if Negated(lit) {
				negSeen[v] = true
			} else {
				posSeen[v] = true
			}
		}
	}
	any := false
	for v := range st.assign {
		if st.assign[v] != 0 {
			continue
		}
		if posSeen[v] && !negSeen[v] {
			st.assignVar(v, true)
			any = true
		} else if negSeen[v] && !posSeen[v] {
			st.assignVar(v, false)
			any = true
		}
	}
	return any
}

func (st *solveState) aborted() bool {
	if st.maxConflicts > 0 && st.conflicts >= st.maxConflicts {
		return true
	}
	if st.hasDeadline && time.Now().After(st.deadline) {
		return true
	}
	return false
}

// search runs DPLL from the current partial assignment to completion.
func (st *solveState) search() Outcome {
	if st.aborted() {
		return Aborted
	}
	if !st.propagate() {
		st.conflicts++
		return Unsat
	}
	for st.pureLiteralAssign() {
		if !st.propagate() {
			st.conflicts++
			return Unsat
		}
	}

	v := -1
	for i, a := range st.assign {
		if a == 0 {
			v = i
			break
		}
	}
	if v == -1 {
		return Sat
	}

	trailMark := len(st.trail)
	saved := make([]int8, len(st.assign))
	copy(saved, st.assign)

	st.assignVar(v, true)
	switch outcome := st.search(); outcome {
	case Sat, Aborted:
		return outcome
	}
	st.conflicts++
	if st.aborted() {
		return Aborted
	}

	copy(st.assign, saved)
	st.trail = st.trail[:trailMark]
	st.assignVar(v, false)
	return st.search()
}

func (s *DPLLSolver) Solve(assumptions []int, budget Budget) (Outcome, Model) {
	st := &solveState{
		assign:       make([]int8, s.nVars),
		clauses:      s.clauses,
		maxConflicts: budget.MaxConflicts,
	}
	if budget.Timeout > 0 {
		st.hasDeadline = true
		st.deadline = time.Now().Add(budget.Timeout)
	}

	for _, lit := range assumptions {
		v := Var(lit)
		if st.assign[v] != 0 {
			if st.litFalse(lit) {
				return Unsat, nil
			}
			continue
		}
		st.assignVar(v, !Negated(lit))
	}

	outcome := st.search()
	if outcome != Sat {
		return outcome, nil
	}
	model := make(Model, s.nVars)
	for v := 0; v < s.nVars; v++ {
		model[v] = st.assign[v] == 1
	}
	return Sat, model
}
