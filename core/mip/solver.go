package mip

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Defaults applied to zero Options fields.
const (
	DefaultNodeLimit = 20000
	DefaultTimeLimit = 5 * time.Second
	DefaultIntTol    = 1e-6
)

// Options bound a Solve call.
type Options struct {
	// NodeLimit caps the number of branch and bound nodes.
	NodeLimit int
	// TimeLimit caps the wall-clock duration of the search.
	TimeLimit time.Duration
	// IntTol is the distance to an integer below which a binary counts as
	// integral.
	IntTol float64
	// Gap stops the search once the incumbent objective is within Gap of
	// the lowest bound left in the tree. Zero searches to optimality.
	Gap float64
	// Incumbent is an optional feasible starting solution.
	Incumbent []float64
}

func (o *Options) setDefaults() {
	if o.NodeLimit <= 0 {
		o.NodeLimit = DefaultNodeLimit
	}
	if o.TimeLimit <= 0 {
		o.TimeLimit = DefaultTimeLimit
	}
	if o.IntTol <= 0 {
		o.IntTol = DefaultIntTol
	}
}

// Status qualifies a returned solution.
type Status int

const (
	// StatusOptimal means the search space was fully explored.
	StatusOptimal Status = iota
	// StatusFeasible means a limit stopped the search or some relaxations
	// failed, so the solution may not be optimal.
	StatusFeasible
)

func (s Status) String() string {
	if s == StatusOptimal {
		return "optimal"
	}
	return "feasible"
}

// Stats describes the work done by a Solve call.
type Stats struct {
	Nodes      int
	LPFailures int
	WarmStart  bool
	Stopped    string // "", "gap", "nodes", "time" or "cancelled"
	Elapsed    time.Duration
}

// Solution is the best assignment found.
type Solution struct {
	Status    Status
	X         []float64
	Objective float64
	Stats     Stats
}

// Value returns the value of v in the solution.
func (s *Solution) Value(v Var) float64 { return s.X[v] }

type node struct {
	lb, ub []float64
	bound  float64
}

const pruneTol = 1e-9

// Solve minimises the model objective. It returns ErrInfeasible when the
// search proves there is no solution, ErrLimit when a limit stops the
// search before any solution is known and ErrNumerical when relaxations
// fail and no solution is known.
//
//gocyclo:ignore
func Solve(ctx context.Context, m *Model, opts Options) (*Solution, error) {
	opts.setDefaults()
	if err := m.validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	deadline := start.Add(opts.TimeLimit)

	var (
		best    []float64
		bestObj = math.Inf(1)
		stats   Stats
		lpErr   error
	)
	if opts.Incumbent != nil && m.Check(opts.Incumbent, feasTol) == nil {
		best = roundBinaries(m, opts.Incumbent)
		bestObj = m.Objective(best)
		stats.WarmStart = true
	}

	root := node{lb: make([]float64, len(m.vars)), ub: make([]float64, len(m.vars)), bound: math.Inf(-1)}
	for j, v := range m.vars {
		root.lb[j] = v.lb
		root.ub[j] = v.ub
	}
	stack := []node{root}

	for len(stack) > 0 {
		if stats.Nodes >= opts.NodeLimit {
			stats.Stopped = "nodes"
			break
		}
		if time.Now().After(deadline) {
			stats.Stopped = "time"
			break
		}
		if ctx.Err() != nil {
			stats.Stopped = "cancelled"
			break
		}
		if lo := lowestBound(stack); opts.Gap > 0 && best != nil && bestObj-lo <= opts.Gap {
			// Open nodes that cannot improve would all be pruned.
			if lo < bestObj-pruneTol {
				stats.Stopped = "gap"
			}
			break
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if nd.bound >= bestObj-pruneTol {
			continue
		}
		stats.Nodes++

		x, obj, err := m.relax(nd.lb, nd.ub)
		if err != nil {
			if errors.Is(err, ErrInfeasible) {
				continue
			}
			if errors.Is(err, ErrUnbounded) && best == nil {
				return nil, err
			}
			stats.LPFailures++
			if lpErr == nil {
				lpErr = err
			}
			continue
		}
		if obj >= bestObj-pruneTol {
			continue
		}

		j := branchVar(m, x, nd, opts.IntTol)
		if j < 0 {
			cand, err := m.polish(x, nd)
			if err != nil {
				stats.LPFailures++
				continue
			}
			if f := m.Objective(cand); f < bestObj-pruneTol {
				best, bestObj = cand, f
			}
			continue
		}

		down := node{lb: clone(nd.lb), ub: clone(nd.ub), bound: obj}
		down.ub[j] = 0
		up := node{lb: clone(nd.lb), ub: clone(nd.ub), bound: obj}
		up.lb[j] = 1
		// The up branch is popped first; it reaches integral leaves faster on
		// assignment problems.
		stack = append(stack, down, up)
	}
	stats.Elapsed = time.Since(start)

	if best == nil {
		switch {
		case stats.Stopped != "":
			return nil, fmt.Errorf("%w (%s after %d nodes)", ErrLimit, stats.Stopped, stats.Nodes)
		case lpErr != nil:
			return nil, lpErr
		default:
			return nil, ErrInfeasible
		}
	}
	status := StatusOptimal
	if stats.Stopped != "" || stats.LPFailures > 0 {
		status = StatusFeasible
	}
	return &Solution{Status: status, X: best, Objective: bestObj, Stats: stats}, nil
}

// lowestBound returns the smallest relaxation bound among open nodes.
func lowestBound(stack []node) float64 {
	lo := math.Inf(1)
	for _, nd := range stack {
		lo = math.Min(lo, nd.bound)
	}
	return lo
}

// branchVar returns the free binary variable whose value is closest to 0.5,
// or -1 when every binary is integral.
func branchVar(m *Model, x []float64, nd node, tol float64) int {
	pick := -1
	bestDist := 0.0
	for j, v := range m.vars {
		if v.kind != Binary || nd.ub[j]-nd.lb[j] <= feasTol {
			continue
		}
		frac := x[j] - math.Floor(x[j])
		dist := math.Min(frac, 1-frac)
		if dist > tol && dist > bestDist {
			pick, bestDist = j, dist
		}
	}
	return pick
}

// polish fixes the binaries of an integral relaxation to their rounded
// values and re-solves for the continuous variables, removing the drift
// that rounding leaves in the rows.
func (m *Model) polish(x []float64, nd node) ([]float64, error) {
	lb, ub := clone(nd.lb), clone(nd.ub)
	for j, v := range m.vars {
		if v.kind == Binary {
			r := math.Round(x[j])
			lb[j], ub[j] = r, r
		}
	}
	cand, _, err := m.relax(lb, ub)
	if err != nil {
		return nil, err
	}
	cand = roundBinaries(m, cand)
	if err := m.Check(cand, feasTol); err != nil {
		return nil, err
	}
	return cand, nil
}

func roundBinaries(m *Model, x []float64) []float64 {
	out := clone(x)
	for j, v := range m.vars {
		if v.kind == Binary {
			out[j] = math.Round(out[j])
		}
	}
	return out
}

func clone(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
