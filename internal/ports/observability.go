package ports

import "context"

// MetricsCollector records quantitative observability signals. The
// interface is intentionally generic so adapters can back onto Prometheus,
// StatsD, or vendor-specific SDKs. Standard metric names include:
//   - Counters:
//     pipeforge_pipeline_runs_total{status="success|failure|cancelled"}
//     pipeforge_node_executions_total{node="...", status="success|failure"}
//     pipeforge_validation_checks_total{level="shallow|deep", status="pass|fail"}
//   - Gauges:
//     pipeforge_pipeline_active_runs
//   - Histograms:
//     pipeforge_pipeline_run_duration_seconds
//     pipeforge_node_execution_duration_seconds{node="..."}
//     pipeforge_validation_duration_seconds{level="shallow|deep"}
type MetricsCollector interface {
	IncCounter(ctx context.Context, name string, labels map[string]string)
	SetGauge(ctx context.Context, name string, value float64, labels map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, labels map[string]string)
}
