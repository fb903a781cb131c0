package balance

// greedyAssign places locked players on their teams, then every other
// player, highest score first, on the team with the lowest total. Ties go to
// the lowest team index. Relations are ignored and sizes are not bounded.
func greedyAssign(p *problem) []int {
	assign := make([]int, p.n())
	totals := make([]float64, p.k)
	for i, t := range p.locks {
		assign[i] = t
		if t >= 0 {
			totals[t] += p.scores[i]
		}
	}
	for _, i := range p.freeByScore() {
		t := lowest(totals)
		assign[i] = t
		totals[t] += p.scores[i]
	}
	return assign
}

// Greedy partitions the request with the greedy heuristic only. It returns
// ErrInvalidConfiguration for the same requests Balance rejects.
func Greedy(req Request, cfg Config) (*Result, error) {
	cfg.SetDefaults()
	p, err := newProblem(req)
	if err != nil {
		return nil, err
	}
	return greedyResult(p, cfg, nil), nil
}

func greedyResult(p *problem, cfg Config, failure *SolverFailure) *Result {
	assign := greedyAssign(p)
	return &Result{
		Teams:        p.teams(assign),
		Strategy:     StrategyGreedy,
		Status:       StatusHeuristic,
		Objective:    p.cost(assign, cfg),
		Fallback:     failure,
		IgnoredLocks: p.ignored,
	}
}
