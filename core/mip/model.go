// Package mip models and solves small mixed binary linear programs.
//
// A Model collects bounded variables, linear constraints and a linear
// objective to minimise. Solve runs a depth-first branch and bound whose
// relaxations are solved with the gonum simplex implementation.
package mip

import (
	"fmt"
	"math"
)

// Var identifies a variable of a Model.
type Var int

// Kind is the domain of a variable.
type Kind int

const (
	Continuous Kind = iota
	Binary
)

// Sense is the comparison used by a constraint.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	default:
		return "?"
	}
}

// Term is a coefficient applied to a variable.
type Term struct {
	Var  Var
	Coef float64
}

// T is shorthand for a Term.
func T(v Var, coef float64) Term { return Term{Var: v, Coef: coef} }

// Constraint is a linear constraint: sum(Terms) Sense RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

type variable struct {
	name string
	kind Kind
	lb   float64
	ub   float64
}

// Model is a minimisation problem over bounded variables.
type Model struct {
	Name string
	vars []variable
	cons []Constraint
	obj  []float64
}

// NewModel returns an empty model.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

func (m *Model) addVar(name string, kind Kind, lb, ub float64) Var {
	m.vars = append(m.vars, variable{name: name, kind: kind, lb: lb, ub: ub})
	m.obj = append(m.obj, 0)
	return Var(len(m.vars) - 1)
}

// AddBinary adds a 0/1 variable.
func (m *Model) AddBinary(name string) Var {
	return m.addVar(name, Binary, 0, 1)
}

// AddContinuous adds a real variable bounded by [lb, ub]. ub may be
// math.Inf(1); lb must be finite.
func (m *Model) AddContinuous(name string, lb, ub float64) Var {
	return m.addVar(name, Continuous, lb, ub)
}

// Fix pins v to value.
func (m *Model) Fix(v Var, value float64) {
	m.vars[v].lb = value
	m.vars[v].ub = value
}

// AddConstraint appends sum(terms) sense rhs.
func (m *Model) AddConstraint(name string, sense Sense, rhs float64, terms ...Term) {
	cp := make([]Term, len(terms))
	copy(cp, terms)
	m.cons = append(m.cons, Constraint{Name: name, Terms: cp, Sense: sense, RHS: rhs})
}

// AddObjective adds coef*v to the objective.
func (m *Model) AddObjective(v Var, coef float64) {
	m.obj[v] += coef
}

// NumVars returns the number of variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the number of constraints.
func (m *Model) NumConstraints() int { return len(m.cons) }

// VarName returns the name given to v.
func (m *Model) VarName(v Var) string { return m.vars[v].name }

// Objective evaluates the objective at x.
func (m *Model) Objective(x []float64) float64 {
	var f float64
	for j, c := range m.obj {
		f += c * x[j]
	}
	return f
}

func satisfied(s Sense, lhs, rhs, tol float64) bool {
	switch s {
	case LessEq:
		return lhs <= rhs+tol
	case GreaterEq:
		return lhs >= rhs-tol
	default:
		return math.Abs(lhs-rhs) <= tol
	}
}

// Check reports the first bound, integrality or constraint violation of x.
func (m *Model) Check(x []float64, tol float64) error {
	if len(x) != len(m.vars) {
		return fmt.Errorf("mip: solution has %d values, model has %d variables", len(x), len(m.vars))
	}
	for j, v := range m.vars {
		if x[j] < v.lb-tol || x[j] > v.ub+tol {
			return fmt.Errorf("mip: %s=%g outside [%g, %g]", v.name, x[j], v.lb, v.ub)
		}
		if v.kind == Binary && math.Abs(x[j]-math.Round(x[j])) > tol {
			return fmt.Errorf("mip: %s=%g is not integral", v.name, x[j])
		}
	}
	for _, c := range m.cons {
		var lhs float64
		for _, t := range c.Terms {
			lhs += t.Coef * x[t.Var]
		}
		if !satisfied(c.Sense, lhs, c.RHS, tol) {
			return fmt.Errorf("mip: constraint %s violated: %g %s %g", c.Name, lhs, c.Sense, c.RHS)
		}
	}
	return nil
}

func (m *Model) validate() error {
	for _, v := range m.vars {
		if math.IsInf(v.lb, 0) || math.IsNaN(v.lb) {
			return fmt.Errorf("mip: variable %s needs a finite lower bound", v.name)
		}
		if v.ub < v.lb {
			return fmt.Errorf("%w: variable %s has empty domain [%g, %g]", ErrInfeasible, v.name, v.lb, v.ub)
		}
	}
	for _, c := range m.cons {
		for _, t := range c.Terms {
			if int(t.Var) < 0 || int(t.Var) >= len(m.vars) {
				return fmt.Errorf("mip: constraint %s references unknown variable %d", c.Name, t.Var)
			}
		}
	}
	return nil
}
