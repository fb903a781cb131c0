package mip

import "errors"

var (
	// ErrInfeasible indicates that no assignment satisfies the constraints.
	ErrInfeasible = errors.New("mip: infeasible")
	// ErrUnbounded indicates the objective can decrease without limit.
	ErrUnbounded = errors.New("mip: unbounded")
	// ErrLimit indicates the node, time or context limit was reached before
	// any feasible solution was found.
	ErrLimit = errors.New("mip: limit reached without a solution")
	// ErrNumerical indicates the LP solver failed for numerical reasons.
	ErrNumerical = errors.New("mip: numerical failure")
)
