package balance

import (
	"fmt"
	"time"
)

// Strategy names the path that produced a partition.
type Strategy string

const (
	// StrategyExact solves the binary assignment model, falling back to
	// greedy on solver failure.
	StrategyExact Strategy = "exact"
	// StrategyGreedy runs the score-sorted greedy heuristic only.
	StrategyGreedy Strategy = "greedy"
)

// Default objective weights and solver limits.
const (
	DefaultPartnershipWeight = 10.0
	DefaultConflictWeight    = 20.0
	DefaultTimeLimitMS       = 1000
	DefaultGap               = 0.5
	DefaultNodeLimit         = 20000
	DefaultLocalSearchPasses = 50
)

// Config defines team balancing settings.
type Config struct {
	// Strategy selects "exact" (default) or "greedy".
	Strategy Strategy `json:"strategy"`
	// Partnership is charged once per split partner pair. Zero disables the
	// term, nil means DefaultPartnershipWeight.
	Partnership *float64 `json:"partnership_weight"`
	// Conflict is charged per team shared by a conflict pair. Zero disables
	// the term, nil means DefaultConflictWeight.
	Conflict *float64 `json:"conflict_weight"`
	// Gap stops the exact search once the best lineup is within this
	// objective distance of the relaxation bound. Ignored when
	// RequireOptimal is set.
	Gap *float64 `json:"gap"`
	// TimeLimitMS caps the wall-clock time of the exact solve.
	TimeLimitMS int `json:"time_limit_ms"`
	// NodeLimit caps the number of branch and bound nodes.
	NodeLimit int `json:"node_limit"`
	// LocalSearchPasses bounds the improvement passes run on the starting
	// solution handed to the solver.
	LocalSearchPasses int `json:"local_search_passes"`
	// RequireOptimal treats a solve stopped by a limit as a failure.
	RequireOptimal bool `json:"require_optimal"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Strategy == "" {
		c.Strategy = StrategyExact
	}
	if c.Partnership == nil {
		c.Partnership = Weight(DefaultPartnershipWeight)
	}
	if c.Conflict == nil {
		c.Conflict = Weight(DefaultConflictWeight)
	}
	if c.Gap == nil {
		c.Gap = Weight(DefaultGap)
	}
	if c.TimeLimitMS == 0 {
		c.TimeLimitMS = DefaultTimeLimitMS
	}
	if c.NodeLimit == 0 {
		c.NodeLimit = DefaultNodeLimit
	}
	if c.LocalSearchPasses == 0 {
		c.LocalSearchPasses = DefaultLocalSearchPasses
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.Strategy != StrategyExact && c.Strategy != StrategyGreedy {
		return fmt.Errorf("unknown strategy %s", c.Strategy)
	}
	if c.PartnershipWeight() < 0 || c.ConflictWeight() < 0 {
		return fmt.Errorf("weights must not be negative")
	}
	if c.Gap != nil && *c.Gap < 0 {
		return fmt.Errorf("gap must not be negative")
	}
	if c.TimeLimitMS < 0 || c.NodeLimit < 0 || c.LocalSearchPasses < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	return nil
}

// TimeLimit returns the solver time limit as a duration.
func (c Config) TimeLimit() time.Duration {
	return time.Duration(c.TimeLimitMS) * time.Millisecond
}

// Weight returns a pointer to v, for the optional weight fields.
func Weight(v float64) *float64 { return &v }

// PartnershipWeight returns the configured partnership weight.
func (c Config) PartnershipWeight() float64 {
	return valueOr(c.Partnership, DefaultPartnershipWeight)
}

// ConflictWeight returns the configured conflict weight.
func (c Config) ConflictWeight() float64 {
	return valueOr(c.Conflict, DefaultConflictWeight)
}

// GapTolerance returns the objective gap at which the exact search stops.
func (c Config) GapTolerance() float64 {
	if c.RequireOptimal {
		return 0
	}
	return valueOr(c.Gap, DefaultGap)
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
