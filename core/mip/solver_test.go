package mip

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// pickModel maximises the number of chosen items when at most 1.5 units of
// capacity are available. Its relaxation is fractional.
func pickModel(items int) (*Model, []Var) {
	m := NewModel("pick")
	vars := make([]Var, items)
	terms := make([]Term, items)
	for i := range vars {
		vars[i] = m.AddBinary("x")
		terms[i] = T(vars[i], 2)
		m.AddObjective(vars[i], -1)
	}
	m.AddConstraint("capacity", LessEq, 3, terms...)
	return m, vars
}

func TestSolvePick(t *testing.T) {
	m, vars := pickModel(3)
	sol, err := Solve(context.Background(), m, Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, -1, sol.Objective, 1e-9)
	var chosen float64
	for _, v := range vars {
		chosen += sol.Value(v)
	}
	assert.InDelta(t, 1, chosen, 1e-9)
	assert.NoError(t, m.Check(sol.X, 1e-6))
}

func TestSolveAssignment(t *testing.T) {
	// Two items, two bins, each item in exactly one bin, bin 0 holds at
	// most one item, putting item 1 in bin 0 is cheapest.
	m := NewModel("assign")
	x := [2][2]Var{}
	for i := 0; i < 2; i++ {
		for b := 0; b < 2; b++ {
			x[i][b] = m.AddBinary("x")
		}
		m.AddConstraint("one", Equal, 1, T(x[i][0], 1), T(x[i][1], 1))
	}
	m.AddConstraint("cap0", LessEq, 1, T(x[0][0], 1), T(x[1][0], 1))
	m.AddObjective(x[0][0], 1)
	m.AddObjective(x[0][1], 2)
	m.AddObjective(x[1][0], 1)
	m.AddObjective(x[1][1], 5)

	sol, err := Solve(context.Background(), m, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 3, sol.Objective, 1e-9)
	assert.InDelta(t, 1, sol.Value(x[1][0]), 1e-9)
	assert.InDelta(t, 1, sol.Value(x[0][1]), 1e-9)
}

func TestSolveContinuousSpread(t *testing.T) {
	// Minimise hi - lo with lo <= 3 <= hi and lo <= 5 <= hi.
	m := NewModel("spread")
	hi := m.AddContinuous("hi", 0, math.Inf(1))
	lo := m.AddContinuous("lo", 0, math.Inf(1))
	for _, v := range []float64{3, 5} {
		m.AddConstraint("hi", GreaterEq, v, T(hi, 1))
		m.AddConstraint("lo", LessEq, v, T(lo, 1))
	}
	m.AddObjective(hi, 1)
	m.AddObjective(lo, -1)
	sol, err := Solve(context.Background(), m, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 2, sol.Objective, 1e-7)
}

func TestSolveInfeasibleFixed(t *testing.T) {
	m := NewModel("infeasible")
	a := m.AddBinary("a")
	b := m.AddBinary("b")
	m.Fix(a, 1)
	m.Fix(b, 1)
	m.AddConstraint("atMostOne", LessEq, 1, T(a, 1), T(b, 1))
	_, err := Solve(context.Background(), m, Options{})
	assert.True(t, errors.Is(err, ErrInfeasible), "got %v", err)
}

func TestSolveNodeLimitWithoutIncumbent(t *testing.T) {
	m, _ := pickModel(3)
	_, err := Solve(context.Background(), m, Options{NodeLimit: 1})
	assert.True(t, errors.Is(err, ErrLimit), "got %v", err)
}

func TestSolveNodeLimitKeepsIncumbent(t *testing.T) {
	m, _ := pickModel(3)
	sol, err := Solve(context.Background(), m, Options{NodeLimit: 1, Incumbent: []float64{0, 1, 0}})
	require.NoError(t, err)
	assert.Equal(t, StatusFeasible, sol.Status)
	assert.True(t, sol.Stats.WarmStart)
	assert.Equal(t, "nodes", sol.Stats.Stopped)
	assert.InDelta(t, -1, sol.Objective, 1e-9)
}

func TestSolveStopsWithinGap(t *testing.T) {
	// The relaxation bound of pickModel(3) is -1.5, the incumbent is at -1.
	m, _ := pickModel(3)
	sol, err := Solve(context.Background(), m, Options{Gap: 0.6, Incumbent: []float64{0, 1, 0}})
	require.NoError(t, err)
	assert.Equal(t, StatusFeasible, sol.Status)
	assert.Equal(t, "gap", sol.Stats.Stopped)
	assert.Equal(t, 1, sol.Stats.Nodes)
	assert.InDelta(t, -1, sol.Objective, 1e-9)

	sol, err = Solve(context.Background(), m, Options{Gap: 0.1, Incumbent: []float64{0, 1, 0}})
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.Empty(t, sol.Stats.Stopped)
	assert.Greater(t, sol.Stats.Nodes, 1)
}

func TestSolveRejectsInvalidIncumbent(t *testing.T) {
	m, _ := pickModel(3)
	sol, err := Solve(context.Background(), m, Options{Incumbent: []float64{1, 1, 1}})
	require.NoError(t, err)
	assert.False(t, sol.Stats.WarmStart)
	assert.InDelta(t, -1, sol.Objective, 1e-9)
}

func TestSolveCancelled(t *testing.T) {
	m, _ := pickModel(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Solve(ctx, m, Options{})
	assert.True(t, errors.Is(err, ErrLimit), "got %v", err)
}

func TestSolveTimeLimit(t *testing.T) {
	m, _ := pickModel(3)
	old := lpSolve
	lpSolve = func(c []float64, a mat.Matrix, b []float64) ([]float64, error) {
		time.Sleep(20 * time.Millisecond)
		return solveLP(c, a, b)
	}
	defer func() { lpSolve = old }()
	_, err := Solve(context.Background(), m, Options{TimeLimit: time.Millisecond})
	assert.True(t, errors.Is(err, ErrLimit), "got %v", err)
}

func TestSolveLPFailure(t *testing.T) {
	old := lpSolve
	lpSolve = func(_ []float64, _ mat.Matrix, _ []float64) ([]float64, error) {
		return nil, errors.New("boom")
	}
	defer func() { lpSolve = old }()

	m, _ := pickModel(3)
	_, err := Solve(context.Background(), m, Options{})
	assert.True(t, errors.Is(err, ErrNumerical), "got %v", err)

	sol, err := Solve(context.Background(), m, Options{Incumbent: []float64{0, 0, 1}})
	require.NoError(t, err)
	assert.Equal(t, StatusFeasible, sol.Status)
	assert.Equal(t, 1, sol.Stats.LPFailures)
}

func TestSolveLPPanicIsRecovered(t *testing.T) {
	old := lpSolve
	lpSolve = func(_ []float64, _ mat.Matrix, _ []float64) ([]float64, error) {
		panic("singular")
	}
	defer func() { lpSolve = old }()

	m, _ := pickModel(2)
	_, err := Solve(context.Background(), m, Options{})
	assert.True(t, errors.Is(err, ErrNumerical), "got %v", err)
}

func TestModelCheck(t *testing.T) {
	m, _ := pickModel(2)
	assert.NoError(t, m.Check([]float64{1, 0}, 1e-9))
	assert.Error(t, m.Check([]float64{1, 1}, 1e-9))
	assert.Error(t, m.Check([]float64{0.5, 0}, 1e-9))
	assert.Error(t, m.Check([]float64{1}, 1e-9))
}

func TestValidateRejectsInfiniteLowerBound(t *testing.T) {
	m := NewModel("bad")
	m.AddContinuous("free", math.Inf(-1), 0)
	_, err := Solve(context.Background(), m, Options{})
	assert.Error(t, err)
}
