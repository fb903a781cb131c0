package balance

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/teambalance/core/logger"
	"github.com/kilianp07/teambalance/core/mip"
	"github.com/kilianp07/teambalance/core/model"
)

// Status values of a Result.
const (
	StatusOptimal   = "optimal"
	StatusFeasible  = "feasible"
	StatusHeuristic = "heuristic"
)

// Result is a partition of the requested players.
type Result struct {
	Teams    []model.Team
	Strategy Strategy
	// Status is "optimal" or "feasible" for the exact path and "heuristic"
	// for greedy.
	Status string
	// Objective is the exact path objective evaluated on Teams.
	Objective float64
	// Fallback holds the reason the exact path was abandoned, if it was.
	Fallback     *SolverFailure
	Nodes        int
	Duration     time.Duration
	IgnoredLocks []string
}

// TeamOf returns the team index of the named player or -1.
func (r *Result) TeamOf(name string) int {
	t, _ := model.FindPlayer(r.Teams, name)
	return t
}

// solve points to the branch and bound used by the exact path. It can be
// overridden in tests to simulate solver failures.
var solve = mip.Solve

// Optimizer partitions rosters into balanced teams.
type Optimizer struct {
	cfg    Config
	logger logger.Logger
}

// New returns an Optimizer. Zero config fields take their defaults.
func New(cfg Config, log logger.Logger) (*Optimizer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Optimizer{cfg: cfg, logger: log}, nil
}

// Config returns the settings in use.
func (o *Optimizer) Config() Config { return o.cfg }

// Balance partitions req.Players into req.NumTeams teams. Only
// ErrInvalidConfiguration is returned; a failed exact solve falls back to
// the greedy heuristic and is reported in Result.Fallback.
func (o *Optimizer) Balance(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	p, err := newProblem(req)
	if err != nil {
		return nil, err
	}
	for _, name := range p.ignored {
		o.logger.Debugf("ignoring lock of unknown player %s", name)
	}

	var res *Result
	if o.cfg.Strategy == StrategyGreedy {
		res = greedyResult(p, o.cfg, nil)
	} else {
		o.logger.Debugf("trying exact balance of %d players into %d teams", p.n(), p.k)
		res, err = o.exact(ctx, p)
		if err != nil {
			failure := classify(err)
			o.logger.Warnf("exact balance failed: %v", failure)
			res = greedyResult(p, o.cfg, failure)
			o.logger.Infof("greedy fallback placed %d players", p.n())
		}
	}
	res.Duration = time.Since(start)
	return res, nil
}

func (o *Optimizer) exact(ctx context.Context, p *problem) (*Result, error) {
	if err := p.checkCapacity(); err != nil {
		return nil, &SolverFailure{Reason: ReasonInfeasible, Err: fmt.Errorf("%w: %v", mip.ErrInfeasible, err)}
	}
	a := buildModel(p, o.cfg)
	start := improve(p, seed(p), o.cfg)
	canonical(p, start)

	sol, err := solve(ctx, a.model, mip.Options{
		NodeLimit: o.cfg.NodeLimit,
		TimeLimit: o.cfg.TimeLimit(),
		Gap:       o.cfg.GapTolerance(),
		Incumbent: a.vector(p, start),
	})
	if err != nil {
		return nil, err
	}
	if sol.Status != mip.StatusOptimal && o.cfg.RequireOptimal {
		return nil, &SolverFailure{Reason: ReasonNotOptimal, Err: fmt.Errorf("search stopped (%s) after %d nodes", sol.Stats.Stopped, sol.Stats.Nodes)}
	}
	assign, err := a.decode(sol)
	if err == nil {
		err = p.verify(assign)
	}
	if err != nil {
		return nil, &SolverFailure{Reason: ReasonInvalidSolution, Err: err}
	}

	o.logger.Debugw("exact balance solved", map[string]any{
		"status":      sol.Status.String(),
		"objective":   sol.Objective,
		"nodes":       sol.Stats.Nodes,
		"lp_failures": sol.Stats.LPFailures,
		"warm_start":  sol.Stats.WarmStart,
		"stopped":     sol.Stats.Stopped,
		"elapsed_ms":  sol.Stats.Elapsed.Milliseconds(),
	})
	return &Result{
		Teams:        p.teams(assign),
		Strategy:     StrategyExact,
		Status:       sol.Status.String(),
		Objective:    p.cost(assign, o.cfg),
		Nodes:        sol.Stats.Nodes,
		IgnoredLocks: p.ignored,
	}, nil
}
