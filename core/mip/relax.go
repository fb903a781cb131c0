package mip

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	feasTol    = 1e-6
	simplexTol = 1e-9
	// relaxTol bounds how far a relaxation result may drift from the rows.
	relaxTol = 1e-5
)

// solveLP runs the simplex on a standard form problem:
// minimise cᵀx subject to Ax = b, x >= 0.
func solveLP(c []float64, a mat.Matrix, b []float64) ([]float64, error) {
	_, sol, err := lp.Simplex(c, a, b, simplexTol, nil)
	return sol, err
}

// lpSolve points to the function used to solve relaxations. It can be
// overridden in tests to simulate solver failures.
var lpSolve = solveLP

type row struct {
	coef  []float64 // indexed by free column
	sense Sense
	rhs   float64
}

// relax solves the LP relaxation of m with the variable bounds of a node.
// Variables with equal bounds are substituted out; the others are shifted
// to start at zero so that the simplex non-negativity applies.
//
//gocyclo:ignore
func (m *Model) relax(lb, ub []float64) ([]float64, float64, error) {
	n := len(m.vars)
	x := make([]float64, n)
	col := make([]int, n)
	var free []int
	for j := range m.vars {
		if ub[j]-lb[j] <= feasTol {
			x[j] = lb[j]
			col[j] = -1
			continue
		}
		x[j] = lb[j]
		col[j] = len(free)
		free = append(free, j)
	}

	rows := make([]row, 0, len(m.cons)+len(free))
	for _, c := range m.cons {
		r := row{coef: make([]float64, len(free)), sense: c.Sense, rhs: c.RHS}
		nonzero := false
		for _, t := range c.Terms {
			j := int(t.Var)
			r.rhs -= t.Coef * x[j]
			if col[j] >= 0 {
				r.coef[col[j]] += t.Coef
			}
		}
		for _, v := range r.coef {
			if v != 0 {
				nonzero = true
				break
			}
		}
		if !nonzero {
			if !satisfied(c.Sense, 0, r.rhs, feasTol) {
				return nil, 0, fmt.Errorf("%w: constraint %s", ErrInfeasible, c.Name)
			}
			continue
		}
		rows = append(rows, r)
	}

	// Upper bounds already enforced by a nonnegative equality row need no
	// row of their own.
	implied := make([]float64, len(free))
	for k := range implied {
		implied[k] = math.Inf(1)
	}
	for _, r := range rows {
		if r.sense != Equal || r.rhs < 0 {
			continue
		}
		positive := true
		for _, v := range r.coef {
			if v < 0 {
				positive = false
				break
			}
		}
		if !positive {
			continue
		}
		for k, v := range r.coef {
			if v > 0 {
				implied[k] = math.Min(implied[k], r.rhs/v)
			}
		}
	}
	for k, j := range free {
		width := ub[j] - lb[j]
		if math.IsInf(width, 1) || implied[k] <= width+feasTol {
			continue
		}
		r := row{coef: make([]float64, len(free)), sense: LessEq, rhs: width}
		r.coef[k] = 1
		rows = append(rows, r)
	}

	// Columns that appear in no row are set to their lower bound when that
	// does not hurt the objective.
	used := make([]bool, len(free))
	for _, r := range rows {
		for k, v := range r.coef {
			if v != 0 {
				used[k] = true
			}
		}
	}
	active := make([]int, 0, len(free))
	for k, j := range free {
		if used[k] {
			active = append(active, k)
			continue
		}
		if m.obj[j] < 0 {
			return nil, 0, fmt.Errorf("%w: variable %s", ErrUnbounded, m.vars[j].name)
		}
	}

	if len(rows) > 0 {
		cost := make([]float64, len(active))
		for i, k := range active {
			cost[i] = m.obj[free[k]]
		}
		sol, err := m.solveStandard(rows, active, cost)
		if err != nil {
			return nil, 0, err
		}
		for i, k := range active {
			j := free[k]
			v := lb[j] + sol[i]
			x[j] = math.Max(lb[j], math.Min(ub[j], v))
		}
	}

	if err := m.checkBounds(x, lb, ub); err != nil {
		return nil, 0, err
	}
	return x, m.Objective(x), nil
}

// solveStandard converts rows into Ax = b with one slack per inequality and
// runs the simplex. It returns the values of the active free columns.
func (m *Model) solveStandard(rows []row, active []int, cost []float64) ([]float64, error) {
	slacks := 0
	for _, r := range rows {
		if r.sense != Equal {
			slacks++
		}
	}
	nc := len(active) + slacks
	if len(rows) > nc {
		return nil, fmt.Errorf("%w: %d rows exceed %d columns", ErrNumerical, len(rows), nc)
	}
	a := mat.NewDense(len(rows), nc, nil)
	b := make([]float64, len(rows))
	s := len(active)
	for i, r := range rows {
		sign := 1.0
		if r.rhs < 0 {
			sign = -1
		}
		for c, k := range active {
			if v := r.coef[k]; v != 0 {
				a.Set(i, c, sign*v)
			}
		}
		switch r.sense {
		case LessEq:
			a.Set(i, s, sign)
			s++
		case GreaterEq:
			a.Set(i, s, -sign)
			s++
		}
		b[i] = sign * r.rhs
	}

	// Slacks carry no cost. The constant lb contribution of the shifted
	// variables is recovered by the caller when evaluating x.
	c := make([]float64, nc)
	copy(c, cost)

	sol, err := safeSolve(c, a, b)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return nil, fmt.Errorf("%w: %v", ErrInfeasible, err)
		case errors.Is(err, lp.ErrUnbounded):
			return nil, fmt.Errorf("%w: %v", ErrUnbounded, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrNumerical, err)
		}
	}
	return sol[:len(active)], nil
}

func safeSolve(c []float64, a mat.Matrix, b []float64) (sol []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			sol = nil
			err = fmt.Errorf("simplex panic: %v", r)
		}
	}()
	return lpSolve(c, a, b)
}

func (m *Model) checkBounds(x, lb, ub []float64) error {
	for j := range x {
		if x[j] < lb[j]-relaxTol || x[j] > ub[j]+relaxTol {
			return fmt.Errorf("%w: %s=%g outside node bounds", ErrNumerical, m.vars[j].name, x[j])
		}
	}
	for _, c := range m.cons {
		var lhs float64
		for _, t := range c.Terms {
			lhs += t.Coef * x[t.Var]
		}
		if !satisfied(c.Sense, lhs, c.RHS, relaxTol) {
			return fmt.Errorf("%w: relaxation violates %s", ErrNumerical, c.Name)
		}
	}
	return nil
}
