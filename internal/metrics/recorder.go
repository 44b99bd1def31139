package metrics

import "time"

// ResultLabel enumerates per-route render result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// ExportOutcomeLabel enumerates final export outcomes.
type ExportOutcomeLabel string

const (
	ExportSuccess  ExportOutcomeLabel = "success"
	ExportFailed   ExportOutcomeLabel = "failed"
	ExportSkipped  ExportOutcomeLabel = "skipped"
	ExportCanceled ExportOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for export and serving metrics.
type Recorder interface {
	ObserveRenderDuration(kind string, d time.Duration)
	IncRenderResult(kind string, result ResultLabel)
	ObserveExportDuration(d time.Duration)
	IncExportOutcome(outcome ExportOutcomeLabel)
	SetCatalogSize(n int)
	ObserveHTTPRequest(method string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(string, time.Duration)   {}
func (NoopRecorder) IncRenderResult(string, ResultLabel)           {}
func (NoopRecorder) ObserveExportDuration(time.Duration)           {}
func (NoopRecorder) IncExportOutcome(ExportOutcomeLabel)           {}
func (NoopRecorder) SetCatalogSize(int)                            {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration) {}
