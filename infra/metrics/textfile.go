package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile dumps the gatherer in the text exposition format, the shape
// expected by a node exporter textfile collector. A nil gatherer defaults to
// the global registry. Nothing is written when path is empty.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return prometheus.WriteToTextfile(path, g)
}
