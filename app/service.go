// Package app wires configuration, the optimizer and the outer adapters
// into the operations exposed by the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/teambalance/config"
	"github.com/kilianp07/teambalance/core/balance"
	"github.com/kilianp07/teambalance/core/history"
	coremetrics "github.com/kilianp07/teambalance/core/metrics"
	"github.com/kilianp07/teambalance/core/model"
	coremon "github.com/kilianp07/teambalance/core/monitoring"
	coremqtt "github.com/kilianp07/teambalance/core/mqtt"
	"github.com/kilianp07/teambalance/infra/logger"
	"github.com/kilianp07/teambalance/infra/metrics"
	"github.com/kilianp07/teambalance/infra/mqtt"
)

// StrategyManual tags history records produced by a swap.
const StrategyManual = "manual"

// ErrGameNotFound is returned when a history record does not exist.
var ErrGameNotFound = errors.New("game not found")

// Deps holds the adapters a Service reports to. Nil fields are disabled.
type Deps struct {
	Metrics   coremetrics.MetricsSink
	History   history.Store
	Publisher coremqtt.Publisher
	Logger    logger.Logger
}

// Service orchestrates a balancing run and its side effects.
type Service struct {
	optimizer *balance.Optimizer
	sink      coremetrics.MetricsSink
	history   history.Store
	publisher coremqtt.Publisher
	log       logger.Logger
	textfile  string
	now       func() time.Time
	closers   []func()
}

// Outcome is the result of Generate or Swap.
type Outcome struct {
	RunID  string          `json:"run_id"`
	Result *balance.Result `json:"-"`
	Report balance.Report  `json:"report"`
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("service")
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	deps := Deps{Metrics: sink, Logger: log}
	var closers []func()

	if cfg.History.Enabled() {
		store, err := history.New(cfg.History.Module())
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
		deps.History = store
		closers = append(closers, func() {
			if err := store.Close(); err != nil {
				log.Errorf("close history: %v", err)
			}
		})
	}
	if cfg.MQTT.Enabled() {
		pub, err := mqtt.NewLineupPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		deps.Publisher = pub
		closers = append(closers, pub.Disconnect)
	}

	svc, err := NewWithDeps(cfg, deps)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}
	svc.closers = closers
	return svc, nil
}

// NewWithDeps creates a Service reporting to the given adapters.
func NewWithDeps(cfg *config.Config, d Deps) (*Service, error) {
	if d.Logger == nil {
		d.Logger = logger.NopLogger{}
	}
	if d.Metrics == nil {
		d.Metrics = coremetrics.NopSink{}
	}
	opt, err := balance.New(cfg.Balance, logger.New("optimizer"))
	if err != nil {
		return nil, fmt.Errorf("optimizer: %w", err)
	}
	return &Service{
		optimizer: opt,
		sink:      d.Metrics,
		history:   d.History,
		publisher: d.Publisher,
		log:       d.Logger,
		textfile:  cfg.Metrics.TextfilePath,
		now:       time.Now,
	}, nil
}

// Generate splits the roster into numTeams teams and reports the run.
func (s *Service) Generate(ctx context.Context, r *Roster, numTeams int) (*Outcome, error) {
	res, err := s.optimizer.Balance(ctx, balance.Request{
		Players:      r.Players,
		NumTeams:     numTeams,
		Partnerships: r.Partnerships,
		Conflicts:    r.Conflicts,
		Locks:        r.Locks,
	})
	if err != nil {
		return nil, err
	}
	for _, name := range res.IgnoredLocks {
		s.log.Warnf("lock on unknown player %s ignored", name)
	}
	out := &Outcome{
		RunID:  uuid.NewString(),
		Result: res,
		Report: balance.Summarize(res.Teams, r.Partnerships, r.Conflicts),
	}
	if res.Fallback != nil {
		coremon.CaptureException(res.Fallback, map[string]string{
			"module": "balance",
			"reason": string(res.Fallback.Reason),
		})
	}
	if err := s.store(ctx, out, string(res.Strategy), res.Status, fallbackReason(res)); err != nil {
		return nil, err
	}
	s.record(out, r)
	s.announce(ctx, out, string(res.Strategy), res.Status)
	return out, nil
}

// Swap exchanges two players in a recorded game and records the new lineup.
func (s *Service) Swap(ctx context.Context, r *Roster, gameID, a, b string) (*Outcome, error) {
	if s.history == nil {
		return nil, fmt.Errorf("history is disabled")
	}
	rec, err := s.Game(ctx, gameID)
	if err != nil {
		return nil, err
	}
	teams, err := r.Teams(rec.Teams)
	if err != nil {
		return nil, err
	}
	swapped, err := balance.Swap(teams, a, b, r.Locks)
	if err != nil {
		return nil, err
	}
	out := &Outcome{
		RunID:  uuid.NewString(),
		Result: &balance.Result{Teams: swapped, Status: StrategyManual},
		Report: balance.Summarize(swapped, r.Partnerships, r.Conflicts),
	}
	s.log.Infof("swapped %s and %s in game %s", a, b, gameID)
	if err := s.store(ctx, out, StrategyManual, StrategyManual, ""); err != nil {
		return nil, err
	}
	s.announce(ctx, out, StrategyManual, StrategyManual)
	return out, nil
}

// Game returns the history record with the given ID.
func (s *Service) Game(ctx context.Context, id string) (*history.Record, error) {
	recs, err := s.History(ctx, history.Query{})
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].ID == id {
			return &recs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
}

// History returns recorded games matching q.
func (s *Service) History(ctx context.Context, q history.Query) ([]history.Record, error) {
	if s.history == nil {
		return nil, fmt.Errorf("history is disabled")
	}
	return s.history.Query(ctx, q)
}

// Close releases the adapters created by New.
func (s *Service) Close() {
	for _, c := range s.closers {
		c()
	}
	coremon.Flush(2 * time.Second)
}

// record sends run metrics. Sink errors are logged, never returned.
func (s *Service) record(out *Outcome, r *Roster) {
	res := out.Result
	ev := coremetrics.BalanceEvent{
		RunID:          out.RunID,
		Strategy:       string(res.Strategy),
		Status:         res.Status,
		FallbackReason: fallbackReason(res),
		Players:        len(r.Players),
		Teams:          len(res.Teams),
		ScoreSpread:    out.Report.ScoreSpread,
		SizeSpread:     out.Report.SizeSpread,
		Objective:      res.Objective,
		Nodes:          res.Nodes,
		Duration:       res.Duration,
		Time:           s.now(),
	}
	if err := s.sink.RecordBalance(ev); err != nil {
		s.log.Warnf("record metrics: %v", err)
	}
	if rec, ok := s.sink.(coremetrics.RelationRecorder); ok {
		if err := rec.RecordRelations(coremetrics.RelationEvent{
			RunID:             out.RunID,
			Partnerships:      r.Partnerships.Len(),
			SplitPartnerships: len(out.Report.SplitPartnerships),
			Conflicts:         r.Conflicts.Len(),
			SharedConflicts:   len(out.Report.SharedConflicts),
			Time:              ev.Time,
		}); err != nil {
			s.log.Warnf("record relations: %v", err)
		}
	}
	if err := metrics.WriteTextfile(s.textfile, nil); err != nil {
		s.log.Warnf("write metrics textfile: %v", err)
	}
}

// store appends the lineup to the history. Failures are returned since the
// caller asked for the game to be kept.
func (s *Service) store(ctx context.Context, out *Outcome, strategy, status, fallback string) error {
	if s.history == nil {
		return nil
	}
	rec := history.Record{
		ID:          out.RunID,
		Timestamp:   s.now(),
		NumTeams:    len(out.Result.Teams),
		Strategy:    strategy,
		Status:      status,
		Fallback:    fallback,
		ScoreSpread: out.Report.ScoreSpread,
		Teams:       names(out.Result.Teams),
	}
	if err := s.history.Append(ctx, rec); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

// announce publishes the lineup when a publisher is configured.
func (s *Service) announce(ctx context.Context, out *Outcome, strategy, status string) {
	if s.publisher == nil {
		return
	}
	l := coremqtt.Lineup{ID: out.RunID, GeneratedAt: s.now(), Strategy: strategy, Status: status}
	for _, t := range out.Report.Teams {
		l.Teams = append(l.Teams, coremqtt.LineupTeam{Index: t.Index, Players: t.Players, Total: t.Metrics.TotalScore})
	}
	if _, err := s.publisher.PublishLineup(ctx, l); err != nil {
		s.log.Errorf("publish lineup: %v", err)
	}
}

func fallbackReason(res *balance.Result) string {
	if res.Fallback == nil {
		return ""
	}
	return string(res.Fallback.Reason)
}

func names(teams []model.Team) [][]string {
	out := make([][]string, len(teams))
	for i, t := range teams {
		out[i] = t.Names()
	}
	return out
}
