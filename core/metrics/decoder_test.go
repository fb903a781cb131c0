package metrics_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	metrics "github.com/kilianp07/teambalance/core/metrics"
	inframetrics "github.com/kilianp07/teambalance/infra/metrics"
)

func healthyInflux(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/health") {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"influxdb","message":"ready","status":"pass","checks":[]}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// Test decoding a prometheus and an influx sink from YAML, the influx
// options being passed to the sink constructor.
func TestMetricsConfigDecodeYAML(t *testing.T) {
	srv := healthyInflux(t)
	data := `sinks:
  - type: prometheus
  - type: influx
    conf:
      url: ` + srv.URL + `
      token: secret
      org: league
      bucket: games
`
	var cfg metrics.Config
	if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if got := cfg.Sinks[1].Conf["bucket"]; got != "games" {
		t.Fatalf("bucket = %v", got)
	}
	s, err := metrics.NewMetricsSink(cfg.Sinks)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	m, ok := s.(*metrics.MultiSink)
	if !ok {
		t.Fatalf("expected MultiSink, got %T", s)
	}
	if _, ok := m.Sinks[0].(*inframetrics.PromSink); !ok {
		t.Fatalf("expected PromSink first, got %T", m.Sinks[0])
	}
	influx, ok := m.Sinks[1].(*inframetrics.InfluxSink)
	if !ok {
		t.Fatalf("expected InfluxSink second, got %T", m.Sinks[1])
	}
	influx.Close()
}

// Test decoding the textfile path and sink list from JSON.
func TestMetricsConfigDecodeJSON(t *testing.T) {
	data := `{"sinks":[{"type":"nop"}],"textfile_path":"/var/lib/node_exporter/teambalance.prom"}`
	var cfg metrics.Config
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if cfg.TextfilePath != "/var/lib/node_exporter/teambalance.prom" {
		t.Fatalf("textfile_path = %q", cfg.TextfilePath)
	}
	s, err := metrics.NewMetricsSink(cfg.Sinks)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := s.(metrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}
}

// Test decoding from JSON with invalid sink type.
func TestMetricsConfigDecodeJSON_Invalid(t *testing.T) {
	data := `{"sinks":[{"type":"missing"}]}`
	var cfg metrics.Config
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if _, err := metrics.NewMetricsSink(cfg.Sinks); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
