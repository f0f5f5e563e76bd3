package dtpg

import (
	"github.com/fyerfyer/atpg-engine/pkg/circuit"
	"github.com/fyerfyer/atpg-engine/pkg/sat"
)

// countingSolver wraps a sat.Solver to track CNF size for Stats without
// touching the solver's own interface (spec §4.5 "Statistics").
type countingSolver struct {
	sat.Solver
	clauses int
}

func (c *countingSolver) AddClause(lits ...int) {
	c.clauses++
	c.Solver.AddClause(lits...)
}

func encodeBuf(s sat.Solver, out, in int) {
	s.AddClause(sat.Lit(out, true), sat.Lit(in, false))
	s.AddClause(sat.Lit(out, false), sat.Lit(in, true))
}

func encodeNot(s sat.Solver, out, in int) {
	s.AddClause(sat.Lit(out, true), sat.Lit(in, true))
	s.AddClause(sat.Lit(out, false), sat.Lit(in, false))
}

func encodeAnd2(s sat.Solver, out, a, b int) {
	s.AddClause(sat.Lit(out, true), sat.Lit(a, false))
	s.AddClause(sat.Lit(out, true), sat.Lit(b, false))
	s.AddClause(sat.Lit(out, false), sat.Lit(a, true), sat.Lit(b, true))
}

func encodeOr2(s sat.Solver, out, a, b int) {
	s.AddClause(sat.Lit(out, false), sat.Lit(a, true))
	s.AddClause(sat.Lit(out, false), sat.Lit(b, true))
	s.AddClause(sat.Lit(out, true), sat.Lit(a, false), sat.Lit(b, false))
}

// encodeXor2 defines out <-> (a XOR b); this is exactly the d <-> (g XOR f)
// clause of spec §4.5's difference-propagation rule when a, b are a node's
// g and f variables.
func encodeXor2(s sat.Solver, out, a, b int) {
	s.AddClause(sat.Lit(out, true), sat.Lit(a, false), sat.Lit(b, false))
	s.AddClause(sat.Lit(out, true), sat.Lit(a, true), sat.Lit(b, true))
	s.AddClause(sat.Lit(out, false), sat.Lit(a, false), sat.Lit(b, true))
	s.AddClause(sat.Lit(out, false), sat.Lit(a, true), sat.Lit(b, false))
}

// reduceInto wires the n-ary reduction of a commutative binary gate (AND,
// OR, XOR) into out, introducing intermediate variables for arity > 2.
func reduceInto(s sat.Solver, newVar func() int, bin func(sat.Solver, int, int, int), out int, ins []int) {
	if len(ins) == 1 {
		encodeBuf(s, out, ins[0])
		return
	}
	acc := ins[0]
	for i := 1; i < len(ins)-1; i++ {
		t := newVar()
		bin(s, t, acc, ins[i])
		acc = t
	}
	bin(s, out, acc, ins[len(ins)-1])
}

// encodeGate writes the Tseitin clauses for out = gate(ins) (spec §4.5
// clauses 1/2/5: "Tseitin clauses encoding the gate function"). Complex
// never reaches here: circuit.Build decomposes it into AND/OR/NOT before
// any Node carries that kind.
func encodeGate(s sat.Solver, newVar func() int, kind circuit.GateKind, out int, ins []int) {
	switch kind {
	case circuit.Buf:
		encodeBuf(s, out, ins[0])
	case circuit.Not:
		encodeNot(s, out, ins[0])
	case circuit.And:
		reduceInto(s, newVar, encodeAnd2, out, ins)
	case circuit.Nand:
		t := newVar()
		reduceInto(s, newVar, encodeAnd2, t, ins)
		encodeNot(s, out, t)
	case circuit.Or:
		reduceInto(s, newVar, encodeOr2, out, ins)
	case circuit.Nor:
		t := newVar()
		reduceInto(s, newVar, encodeOr2, t, ins)
		encodeNot(s, out, t)
	case circuit.Xor:
		reduceInto(s, newVar, encodeXor2, out, ins)
	case circuit.Xnor:
		t := newVar()
		reduceInto(s, newVar, encodeXor2, t, ins)
		encodeNot(s, out, t)
	}
}
