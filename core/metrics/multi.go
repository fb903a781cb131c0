package metrics

import "errors"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBalance forwards the event to every sink and joins their errors.
func (m *MultiSink) RecordBalance(ev BalanceEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordBalance(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordRelations forwards relation outcomes to sinks that support them.
func (m *MultiSink) RecordRelations(ev RelationEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(RelationRecorder); ok {
			if err := rec.RecordRelations(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
