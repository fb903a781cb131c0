package metrics

import "github.com/kilianp07/teambalance/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// TextfilePath, when set, receives the Prometheus registry in text
	// format after each run for a node exporter textfile collector.
	TextfilePath string `json:"textfile_path"`
}
