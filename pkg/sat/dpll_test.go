package sat_test

import (
	"testing"
	"time"

	"github.com/fyerfyer/atpg-engine/pkg/sat"
	"github.com/stretchr/testify/require"
)

func TestUnitPropagationSatisfiesSimpleClause(t *testing.T) {
	s := sat.NewDPLLSolver()
	a := s.NewVar()
	b := s.NewVar()
	// a OR b; NOT a -> forces b true.
	s.AddClause(sat.Lit(a, false), sat.Lit(b, false))
	s.AddClause(sat.Lit(a, true))

	outcome, model := s.Solve(nil, sat.Budget{MaxConflicts: 1000})
	require.Equal(t, sat.Sat, outcome)
	require.False(t, model[a])
	require.True(t, model[b])
}

func TestUnsat(t *testing.T) {
	s := sat.NewDPLLSolver()
	a := s.NewVar()
	s.AddClause(sat.Lit(a, false))
	s.AddClause(sat.Lit(a, true))

	outcome, _ := s.Solve(nil, sat.Budget{MaxConflicts: 1000})
	require.Equal(t, sat.Unsat, outcome)
}

func TestAssumptionsDriveUnsat(t *testing.T) {
	s := sat.NewDPLLSolver()
	a := s.NewVar()
	b := s.NewVar()
	// a -> b, assume a and NOT b.
	s.AddClause(sat.Lit(a, true), sat.Lit(b, false))

	outcome, _ := s.Solve([]int{sat.Lit(a, false), sat.Lit(b, true)}, sat.Budget{MaxConflicts: 1000})
	require.Equal(t, sat.Unsat, outcome)
}

func TestExpiredDeadlineNeverReportsSat(t *testing.T) {
	s := sat.NewDPLLSolver()
	// A MaxConflicts of 0 disables the conflict limit, so the budget here
	// is a 1ns deadline instead. The formula (a) AND (NOT a) is UNSAT, so
	// the solve ends Aborted once the deadline has passed and Unsat if the
	// clock has not yet moved; it can never be Sat.
	a := s.NewVar()
	s.AddClause(sat.Lit(a, false))
	s.AddClause(sat.Lit(a, true))

	outcome, _ := s.Solve(nil, sat.Budget{Timeout: time.Nanosecond})
	require.NotEqual(t, sat.Sat, outcome)
}

func TestThreeVarSatisfiable(t *testing.T) {
	s := sat.NewDPLLSolver()
	a := s.NewVar()
	b := s.NewVar()
	c := s.NewVar()
	s.AddClause(sat.Lit(a, false), sat.Lit(b, false), sat.Lit(c, false))
	s.AddClause(sat.Lit(a, true), sat.Lit(b, true))

	outcome, model := s.Solve(nil, sat.Budget{MaxConflicts: 1000})
	require.Equal(t, sat.Sat, outcome)
	require.Len(t, model, 3)
}
