package lmm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestTwoEqualFlowsShareSharedConstraint(t *testing.T) {
	s := New()
	c := s.NewConstraint(100, Shared)
	a := s.NewVariable()
	b := s.NewVariable()
	s.Expand(c, a, 1)
	s.Expand(c, b, 1)

	s.Solve()

	require.InDelta(t, 50, a.Rate(), 1e-6)
	require.InDelta(t, 50, b.Rate(), 1e-6)
}

func TestBoundedVariableSaturatesFirst(t *testing.T) {
	s := New()
	c := s.NewConstraint(100, Shared)
	a := s.NewVariable()
	a.Bound = 10
	b := s.NewVariable()
	s.Expand(c, a, 1)
	s.Expand(c, b, 1)

	s.Solve()

	require.InDelta(t, 10, a.Rate(), 1e-6)
	require.InDelta(t, 90, b.Rate(), 1e-6)
}

func TestFatPipeTakesMaxNotSum(t *testing.T) {
	s := New()
	c := s.NewConstraint(100, FatPipe)
	a := s.NewVariable()
	b := s.NewVariable()
	s.Expand(c, a, 1)
	s.Expand(c, b, 1)

	s.Solve()

	// Fatpipe: both can reach full capacity independently.
	require.InDelta(t, 100, a.Rate(), 1e-6)
	require.InDelta(t, 100, b.Rate(), 1e-6)
}

func TestTwoFlowsMaxMinWithBottleneck(t *testing.T) {
	// Classic max-min scenario: flow A alone on constraint c1 (cap 10),
	// flows A and B share constraint c2 (cap 100). A is capped at 10 by
	// c1, leaving B the remaining 90 of c2.
	s := New()
	c1 := s.NewConstraint(10, Shared)
	c2 := s.NewConstraint(100, Shared)
	a := s.NewVariable()
	b := s.NewVariable()
	s.Expand(c1, a, 1)
	s.Expand(c2, a, 1)
	s.Expand(c2, b, 1)

	s.Solve()

	require.InDelta(t, 10, a.Rate(), 1e-6)
	require.InDelta(t, 90, b.Rate(), 1e-6)
}

func TestNonlinearConstraintClampsToTransformedCapacity(t *testing.T) {
	s := New()
	c := s.NewConstraint(50, Nonlinear)
	c.NonlinearFunc = func(raw float64) float64 { return raw * 2 } // effective = 2x raw
	a := s.NewVariable()
	s.Expand(c, a, 1)

	s.Solve()

	// f(raw) <= 50  =>  raw <= 25
	require.InDelta(t, 25, a.Rate(), 1e-6)
}

func TestWifiPerHostCapAppliesIndependentOfSharedPool(t *testing.T) {
	s := New()
	c := s.NewConstraint(1000, Shared)
	a := s.NewVariable()
	b := s.NewVariable()
	s.Expand(c, a, 1)
	s.Expand(c, b, 1)
	c.WifiCaps = map[int64]float64{a.ID(): 5}

	s.Solve()

	require.InDelta(t, 5, a.Rate(), 1e-6)
	require.InDelta(t, 995, b.Rate(), 1e-6)
}

func TestNoStarvationWhenUnsaturated(t *testing.T) {
	s := New()
	c := s.NewConstraint(100, Shared)
	a := s.NewVariable()
	s.Expand(c, a, 1)

	s.Solve()

	require.Greater(t, a.Rate(), 0.0)
}

func TestPriorityZeroExcludesVariable(t *testing.T) {
	s := New()
	c := s.NewConstraint(100, Shared)
	a := s.NewVariable()
	a.Priority = 0
	b := s.NewVariable()
	s.Expand(c, a, 1)
	s.Expand(c, b, 1)

	s.Solve()

	require.Equal(t, 0.0, a.Rate())
	require.InDelta(t, 100, b.Rate(), 1e-6)
}

func TestDeterministicTieBreakByVariableID(t *testing.T) {
	s := New()
	c := s.NewConstraint(100, Shared)
	// Create in reverse so id ordering differs from slice append ordering
	// in a way that would expose an unstable sort.
	vars := make([]*Variable, 5)
	for i := 4; i >= 0; i-- {
		vars[i] = s.NewVariable()
		s.Expand(c, vars[i], 1)
	}
	s.Solve()
	for _, v := range vars {
		require.InDelta(t, 20, v.Rate(), 1e-6)
	}
}

func TestRemoveVariableDropsItsEdges(t *testing.T) {
	s := New()
	c := s.NewConstraint(100, Shared)
	a := s.NewVariable()
	b := s.NewVariable()
	s.Expand(c, a, 1)
	s.Expand(c, b, 1)
	s.RemoveVariable(a)

	s.Solve()

	require.InDelta(t, 100, b.Rate(), 1e-6)
}

func TestNextEventCompletion(t *testing.T) {
	s := New()
	c := s.NewConstraint(10, Shared)
	a := s.NewVariable()
	a.RemainingWork = 100
	s.Expand(c, a, 1)
	s.Solve()

	require.InDelta(t, 10, s.NextEventCompletion(), 1e-6)
}

func TestNextEventCompletionInfWhenIdle(t *testing.T) {
	s := New()
	require.True(t, math.IsInf(s.NextEventCompletion(), 1))
}

// TestEqualShareMatchesReferenceLinearSystem cross-checks the textbook
// n-flow-on-one-constraint case against gonum's dense linear algebra: the
// fair-share allocation is the unique solution of "all rates equal" plus
// "rates sum to capacity", solved independently of the progressive-filling
// water-filling loop above.
func TestEqualShareMatchesReferenceLinearSystem(t *testing.T) {
	const capacity = 90.0
	const n = 3

	a := mat.NewDense(n, n, nil)
	for i := 0; i < n-1; i++ {
		a.Set(i, i, 1)
		a.Set(i, i+1, -1)
	}
	for j := 0; j < n; j++ {
		a.Set(n-1, j, 1)
	}
	b := mat.NewVecDense(n, []float64{0, 0, capacity})

	var want mat.VecDense
	require.NoError(t, want.SolveVec(a, b))

	s := New()
	c := s.NewConstraint(capacity, Shared)
	vars := make([]*Variable, n)
	for i := range vars {
		vars[i] = s.NewVariable()
		s.Expand(c, vars[i], 1)
	}
	s.Solve()

	got := make([]float64, n)
	for i, v := range vars {
		got[i] = v.Rate()
		require.InDelta(t, want.AtVec(i), v.Rate(), 1e-6)
	}
	require.InDelta(t, capacity, floats.Sum(got), 1e-6)
}

func TestResourceConservationOnSharedConstraint(t *testing.T) {
	s := New()
	c := s.NewConstraint(100, Shared)
	vars := make([]*Variable, 4)
	for i := range vars {
		vars[i] = s.NewVariable()
		s.Expand(c, vars[i], 1)
	}
	s.Solve()

	total := 0.0
	for _, v := range vars {
		total += v.Rate()
	}
	require.LessOrEqual(t, total, 100+1e-6)
}
