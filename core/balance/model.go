package balance

import (
	"fmt"
	"math"

	"github.com/kilianp07/teambalance/core/mip"
)

// assignment is the binary program of a problem.
//
// Team totals are shifted by offset so the spread bounds stay non-negative
// when scores are negative. The partnership and conflict terms use one
// auxiliary variable per pair and team: apart >= |x1 - x2| costs the
// partnership weight on each of the two teams of a split pair, and
// clash >= x1 + x2 - 1 costs the conflict weight on a shared team.
type assignment struct {
	model    *mip.Model
	x        [][]mip.Var
	maxScore mip.Var
	minScore mip.Var
	apart    [][]mip.Var
	clash    [][]mip.Var
	offset   float64
}

func buildModel(p *problem, cfg Config) *assignment {
	m := mip.NewModel("team_balance")
	a := &assignment{model: m, x: make([][]mip.Var, p.n())}

	for i := range p.players {
		a.x[i] = make([]mip.Var, p.k)
		terms := make([]mip.Term, p.k)
		for t := 0; t < p.k; t++ {
			a.x[i][t] = m.AddBinary(fmt.Sprintf("x_%d_%d", i, t))
			terms[t] = mip.T(a.x[i][t], 1)
		}
		m.AddConstraint(fmt.Sprintf("assign_%d", i), mip.Equal, 1, terms...)
		if t := p.locks[i]; t >= 0 {
			m.Fix(a.x[i][t], 1)
		}
	}
	// Teams are interchangeable without locks.
	if !p.hasLocks() {
		m.Fix(a.x[0][0], 1)
	}

	for t := 0; t < p.k; t++ {
		terms := make([]mip.Term, p.n())
		for i := range p.players {
			terms[i] = mip.T(a.x[i][t], 1)
		}
		m.AddConstraint(fmt.Sprintf("size_min_%d", t), mip.GreaterEq, float64(p.lo), terms...)
		m.AddConstraint(fmt.Sprintf("size_max_%d", t), mip.LessEq, float64(p.hi), terms...)
	}

	for _, s := range p.scores {
		if s < 0 {
			a.offset -= s
		}
	}
	a.maxScore = m.AddContinuous("max_score", 0, math.Inf(1))
	a.minScore = m.AddContinuous("min_score", 0, math.Inf(1))
	for t := 0; t < p.k; t++ {
		upper := make([]mip.Term, 0, p.n()+1)
		lower := make([]mip.Term, 0, p.n()+1)
		for i, s := range p.scores {
			if s == 0 {
				continue
			}
			upper = append(upper, mip.T(a.x[i][t], s))
			lower = append(lower, mip.T(a.x[i][t], s))
		}
		upper = append(upper, mip.T(a.maxScore, -1))
		lower = append(lower, mip.T(a.minScore, -1))
		m.AddConstraint(fmt.Sprintf("score_max_%d", t), mip.LessEq, -a.offset, upper...)
		m.AddConstraint(fmt.Sprintf("score_min_%d", t), mip.GreaterEq, -a.offset, lower...)
	}
	m.AddObjective(a.maxScore, 1)
	m.AddObjective(a.minScore, -1)

	// A split pair sets apart_t to 1 on both of its teams, so each team
	// carries half the weight and the pair costs the weight once.
	a.apart = make([][]mip.Var, len(p.partners))
	half := cfg.PartnershipWeight() / 2
	for pi, pr := range p.partners {
		a.apart[pi] = make([]mip.Var, p.k)
		for t := 0; t < p.k; t++ {
			d := m.AddContinuous(fmt.Sprintf("apart_%d_%d", pi, t), 0, math.Inf(1))
			x1, x2 := a.x[pr[0]][t], a.x[pr[1]][t]
			m.AddConstraint(fmt.Sprintf("apart_a_%d_%d", pi, t), mip.GreaterEq, 0,
				mip.T(d, 1), mip.T(x1, -1), mip.T(x2, 1))
			m.AddConstraint(fmt.Sprintf("apart_b_%d_%d", pi, t), mip.GreaterEq, 0,
				mip.T(d, 1), mip.T(x1, 1), mip.T(x2, -1))
			m.AddObjective(d, half)
			a.apart[pi][t] = d
		}
	}

	a.clash = make([][]mip.Var, len(p.conflicts))
	for ci, pr := range p.conflicts {
		a.clash[ci] = make([]mip.Var, p.k)
		for t := 0; t < p.k; t++ {
			z := m.AddContinuous(fmt.Sprintf("clash_%d_%d", ci, t), 0, math.Inf(1))
			m.AddConstraint(fmt.Sprintf("clash_%d_%d", ci, t), mip.GreaterEq, -1,
				mip.T(z, 1), mip.T(a.x[pr[0]][t], -1), mip.T(a.x[pr[1]][t], -1))
			m.AddObjective(z, cfg.ConflictWeight())
			a.clash[ci][t] = z
		}
	}
	return a
}

// vector returns the solver point of a full assignment.
func (a *assignment) vector(p *problem, assign []int) []float64 {
	x := make([]float64, a.model.NumVars())
	for i, t := range assign {
		x[a.x[i][t]] = 1
	}
	totals := p.totals(assign)
	hi, lo := totals[0], totals[0]
	for _, v := range totals[1:] {
		hi = math.Max(hi, v)
		lo = math.Min(lo, v)
	}
	x[a.maxScore] = hi + a.offset
	x[a.minScore] = lo + a.offset
	for pi, pr := range p.partners {
		for t, d := range a.apart[pi] {
			x[d] = math.Abs(x[a.x[pr[0]][t]] - x[a.x[pr[1]][t]])
		}
	}
	for ci, pr := range p.conflicts {
		for t, z := range a.clash[ci] {
			x[z] = math.Max(0, x[a.x[pr[0]][t]]+x[a.x[pr[1]][t]]-1)
		}
	}
	return x
}

// decode reads the team of every player from a solution.
func (a *assignment) decode(sol *mip.Solution) ([]int, error) {
	out := make([]int, len(a.x))
	for i, row := range a.x {
		out[i] = -1
		for t, v := range row {
			if sol.Value(v) < 0.5 {
				continue
			}
			if out[i] >= 0 {
				return nil, fmt.Errorf("player %d assigned to teams %d and %d", i, out[i], t)
			}
			out[i] = t
		}
		if out[i] < 0 {
			return nil, fmt.Errorf("player %d has no team", i)
		}
	}
	return out, nil
}
