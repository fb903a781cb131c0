package balance

import (
	"errors"
	"fmt"

	"github.com/kilianp07/teambalance/core/mip"
)

// ErrInvalidConfiguration is returned before any solve when the request
// cannot be balanced as given.
var ErrInvalidConfiguration = errors.New("invalid configuration")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// FailureReason classifies why the exact path was abandoned.
type FailureReason string

const (
	ReasonInfeasible      FailureReason = "infeasible"
	ReasonLimit           FailureReason = "limit"
	ReasonSolverError     FailureReason = "solver_error"
	ReasonNotOptimal      FailureReason = "not_optimal"
	ReasonInvalidSolution FailureReason = "invalid_solution"
)

// SolverFailure reports an exact solve that did not produce a usable
// partition. It never reaches callers of Balance as an error: the greedy
// fallback runs instead and the failure is attached to the Result.
type SolverFailure struct {
	Reason FailureReason
	Err    error
}

func (e *SolverFailure) Error() string {
	return fmt.Sprintf("solver failure (%s): %v", e.Reason, e.Err)
}

func (e *SolverFailure) Unwrap() error { return e.Err }

func classify(err error) *SolverFailure {
	var sf *SolverFailure
	if errors.As(err, &sf) {
		return sf
	}
	switch {
	case errors.Is(err, mip.ErrInfeasible):
		return &SolverFailure{Reason: ReasonInfeasible, Err: err}
	case errors.Is(err, mip.ErrLimit):
		return &SolverFailure{Reason: ReasonLimit, Err: err}
	default:
		return &SolverFailure{Reason: ReasonSolverError, Err: err}
	}
}
