package balance

import (
	"fmt"
	"sort"

	"github.com/kilianp07/teambalance/core/model"
	"github.com/kilianp07/teambalance/core/relation"
	"github.com/kilianp07/teambalance/core/scoring"
)

// LockMap pins player names to 0-based team indexes.
type LockMap map[string]int

// Request is one balancing call. Players keep their input order; it breaks
// ties in the greedy path and orders relation pairs.
type Request struct {
	Players      []model.Player
	NumTeams     int
	Partnerships *relation.Graph
	Conflicts    *relation.Graph
	Locks        LockMap
}

// problem is a validated request indexed by player position.
type problem struct {
	players   []model.Player
	k         int
	scores    []float64
	locks     []int // team per player, -1 when free
	partners  [][2]int
	conflicts [][2]int
	lo, hi    int
	ignored   []string
}

func newProblem(req Request) (*problem, error) {
	n := len(req.Players)
	if req.NumTeams < 1 {
		return nil, invalid("team count %d must be at least 1", req.NumTeams)
	}
	if req.NumTeams > n {
		return nil, invalid("team count %d exceeds %d players", req.NumTeams, n)
	}
	index := make(map[string]int, n)
	for i, p := range req.Players {
		if _, dup := index[p.Name]; dup {
			return nil, invalid("duplicate player name %q", p.Name)
		}
		index[p.Name] = i
	}

	p := &problem{
		players: req.Players,
		k:       req.NumTeams,
		scores:  scoring.Scores(req.Players),
		locks:   make([]int, n),
		lo:      n / req.NumTeams,
		hi:      n / req.NumTeams,
	}
	if n%req.NumTeams > 0 {
		p.hi++
	}
	for i := range p.locks {
		p.locks[i] = -1
	}

	names := make([]string, 0, len(req.Locks))
	for name := range req.Locks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		team := req.Locks[name]
		i, ok := index[name]
		if !ok {
			p.ignored = append(p.ignored, name)
			continue
		}
		if team < 0 || team >= req.NumTeams {
			return nil, invalid("lock of %s targets team %d, want [0,%d)", name, team, req.NumTeams)
		}
		p.locks[i] = team
	}

	p.partners = indexPairs(req.Partnerships, index)
	p.conflicts = indexPairs(req.Conflicts, index)
	return p, nil
}

// indexPairs maps the pairs of g whose players are both present to index
// pairs ordered by input position.
func indexPairs(g *relation.Graph, index map[string]int) [][2]int {
	var out [][2]int
	for _, pr := range g.Pairs() {
		i, okA := index[pr.A]
		j, okB := index[pr.B]
		if !okA || !okB {
			continue
		}
		if j < i {
			i, j = j, i
		}
		out = append(out, [2]int{i, j})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a][0] != out[b][0] {
			return out[a][0] < out[b][0]
		}
		return out[a][1] < out[b][1]
	})
	return out
}

func (p *problem) n() int { return len(p.players) }

func (p *problem) hasLocks() bool {
	for _, t := range p.locks {
		if t >= 0 {
			return true
		}
	}
	return false
}

// freeByScore returns the unlocked players sorted by score, highest first,
// input order breaking ties.
func (p *problem) freeByScore() []int {
	free := make([]int, 0, p.n())
	for i, t := range p.locks {
		if t < 0 {
			free = append(free, i)
		}
	}
	sort.SliceStable(free, func(a, b int) bool {
		return p.scores[free[a]] > p.scores[free[b]]
	})
	return free
}

// checkCapacity reports lock sets that leave no room for the size band.
func (p *problem) checkCapacity() error {
	locked := make([]int, p.k)
	for _, t := range p.locks {
		if t >= 0 {
			locked[t]++
		}
	}
	need := 0
	for t, c := range locked {
		if c > p.hi {
			return fmt.Errorf("%d players locked to team %d exceed size %d", c, t, p.hi)
		}
		need += max(c, p.lo)
	}
	if need > p.n() {
		return fmt.Errorf("locks need %d players to fill every team, have %d", need, p.n())
	}
	return nil
}

// verify checks that assign is a full partition honoring locks and the
// size band.
func (p *problem) verify(assign []int) error {
	if len(assign) != p.n() {
		return fmt.Errorf("assignment covers %d of %d players", len(assign), p.n())
	}
	sizes := make([]int, p.k)
	for i, t := range assign {
		if t < 0 || t >= p.k {
			return fmt.Errorf("player %s has no team", p.players[i].Name)
		}
		if l := p.locks[i]; l >= 0 && l != t {
			return fmt.Errorf("player %s locked to team %d placed on %d", p.players[i].Name, l, t)
		}
		sizes[t]++
	}
	for t, s := range sizes {
		if s < p.lo || s > p.hi {
			return fmt.Errorf("team %d has %d players, want [%d,%d]", t, s, p.lo, p.hi)
		}
	}
	return nil
}

func (p *problem) totals(assign []int) []float64 {
	out := make([]float64, p.k)
	for i, t := range assign {
		out[t] += p.scores[i]
	}
	return out
}

// cost evaluates the objective of the exact path for a full assignment.
func (p *problem) cost(assign []int, cfg Config) float64 {
	totals := p.totals(assign)
	hi, lo := totals[0], totals[0]
	for _, v := range totals[1:] {
		hi = max(hi, v)
		lo = min(lo, v)
	}
	c := hi - lo
	for _, pr := range p.partners {
		if assign[pr[0]] != assign[pr[1]] {
			c += cfg.PartnershipWeight()
		}
	}
	for _, pr := range p.conflicts {
		if assign[pr[0]] == assign[pr[1]] {
			c += cfg.ConflictWeight()
		}
	}
	return c
}

func (p *problem) teams(assign []int) []model.Team {
	out := make([]model.Team, p.k)
	for t := range out {
		out[t] = model.Team{}
	}
	for i, t := range assign {
		out[t] = append(out[t], p.players[i])
	}
	return out
}
