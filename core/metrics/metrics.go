package metrics

import "time"

// BalanceEvent describes one balancing run.
type BalanceEvent struct {
	RunID    string
	Strategy string
	Status   string
	// FallbackReason is empty when the exact path produced the teams.
	FallbackReason string
	Players        int
	Teams          int
	ScoreSpread    float64
	SizeSpread     int
	Objective      float64
	Nodes          int
	Duration       time.Duration
	Time           time.Time
}

// MetricsSink records balancing runs for observability purposes.
type MetricsSink interface {
	RecordBalance(ev BalanceEvent) error
}

// RelationEvent counts the relations a partition honours or breaks.
type RelationEvent struct {
	RunID             string
	Partnerships      int
	SplitPartnerships int
	Conflicts         int
	SharedConflicts   int
	Time              time.Time
}

// RelationRecorder is implemented by sinks able to record relation outcomes.
type RelationRecorder interface {
	RecordRelations(ev RelationEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordBalance(BalanceEvent) error    { return nil }
func (NopSink) RecordRelations(RelationEvent) error { return nil }
