package metrics

import (
	coremetrics "github.com/kilianp07/teambalance/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records balancing runs in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	spread    prometheus.Gauge
	nodes     prometheus.Histogram
	relations *prometheus.GaugeVec
}

// NewPromSink registers balance metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "balance_runs_total",
			Help: "Total number of balancing runs",
		}, []string{"strategy", "status"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "balance_fallbacks_total",
			Help: "Exact runs that fell back to the greedy heuristic",
		}, []string{"reason"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "balance_duration_seconds",
			Help:    "Wall time spent computing a partition",
			Buckets: prometheus.DefBuckets,
		}, []string{"strategy"}),
		spread: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "balance_score_spread",
			Help: "Difference between the strongest and weakest team of the last run",
		}),
		nodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "balance_search_nodes",
			Help:    "Branch and bound nodes explored per exact run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		relations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "balance_relations_broken",
			Help: "Relations broken by the last partition",
		}, []string{"kind"}),
	}

	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.fallbacks, err = register(reg, s.fallbacks); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.spread, err = register(reg, s.spread); err != nil {
		return nil, err
	}
	if s.nodes, err = register(reg, s.nodes); err != nil {
		return nil, err
	}
	if s.relations, err = register(reg, s.relations); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing the collector already registered under the
// same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordBalance updates the run counters and distributions.
func (s *PromSink) RecordBalance(ev coremetrics.BalanceEvent) error {
	s.runs.WithLabelValues(ev.Strategy, ev.Status).Inc()
	if ev.FallbackReason != "" {
		s.fallbacks.WithLabelValues(ev.FallbackReason).Inc()
	}
	s.duration.WithLabelValues(ev.Strategy).Observe(ev.Duration.Seconds())
	s.spread.Set(ev.ScoreSpread)
	if ev.Nodes > 0 {
		s.nodes.Observe(float64(ev.Nodes))
	}
	return nil
}

// RecordRelations sets the broken relation gauges.
func (s *PromSink) RecordRelations(ev coremetrics.RelationEvent) error {
	s.relations.WithLabelValues("partnership").Set(float64(ev.SplitPartnerships))
	s.relations.WithLabelValues("conflict").Set(float64(ev.SharedConflicts))
	return nil
}
