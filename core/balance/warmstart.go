package balance

const improveTol = 1e-9

// seed builds a starting assignment inside the size band: locked players
// first, then free players by descending score onto the lowest total team
// with room. Once the remaining players are exactly enough to bring every
// team to the lower bound, only short teams are eligible.
func seed(p *problem) []int {
	assign := make([]int, p.n())
	sizes := make([]int, p.k)
	totals := make([]float64, p.k)
	for i, t := range p.locks {
		assign[i] = t
		if t >= 0 {
			sizes[t]++
			totals[t] += p.scores[i]
		}
	}
	order := p.freeByScore()
	for r, i := range order {
		remaining := len(order) - r
		deficit := 0
		for _, s := range sizes {
			deficit += max(0, p.lo-s)
		}
		best := -1
		for t := 0; t < p.k; t++ {
			if sizes[t] >= p.hi || (remaining <= deficit && sizes[t] >= p.lo) {
				continue
			}
			if best < 0 || totals[t] < totals[best] {
				best = t
			}
		}
		if best < 0 {
			best = lowest(totals)
		}
		assign[i] = best
		sizes[best]++
		totals[best] += p.scores[i]
	}
	return assign
}

// improve runs move and swap passes over free players, keeping any change
// that lowers the cost without leaving the size band.
//
//gocyclo:ignore
func improve(p *problem, assign []int, cfg Config) []int {
	out := make([]int, len(assign))
	copy(out, assign)
	sizes := make([]int, p.k)
	for _, t := range out {
		sizes[t]++
	}
	cur := p.cost(out, cfg)

	for pass := 0; pass < cfg.LocalSearchPasses; pass++ {
		improved := false
		for i := range out {
			if p.locks[i] >= 0 {
				continue
			}
			for t := 0; t < p.k; t++ {
				from := out[i]
				if t == from || sizes[from]-1 < p.lo || sizes[t]+1 > p.hi {
					continue
				}
				out[i] = t
				if c := p.cost(out, cfg); c < cur-improveTol {
					cur = c
					sizes[from]--
					sizes[t]++
					improved = true
					continue
				}
				out[i] = from
			}
		}
		for i := range out {
			if p.locks[i] >= 0 {
				continue
			}
			for j := i + 1; j < len(out); j++ {
				if p.locks[j] >= 0 || out[i] == out[j] {
					continue
				}
				out[i], out[j] = out[j], out[i]
				if c := p.cost(out, cfg); c < cur-improveTol {
					cur = c
					improved = true
					continue
				}
				out[i], out[j] = out[j], out[i]
			}
		}
		if !improved {
			break
		}
	}
	return out
}

// canonical relabels teams so that player 0 sits on team 0. It only applies
// without locks, where team labels carry no meaning.
func canonical(p *problem, assign []int) {
	if p.hasLocks() || len(assign) == 0 || assign[0] == 0 {
		return
	}
	from := assign[0]
	for i, t := range assign {
		switch t {
		case from:
			assign[i] = 0
		case 0:
			assign[i] = from
		}
	}
}

func lowest(totals []float64) int {
	best := 0
	for t := 1; t < len(totals); t++ {
		if totals[t] < totals[best] {
			best = t
		}
	}
	return best
}
