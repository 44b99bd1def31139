package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "blogpress"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	renderDuration *prom.HistogramVec
	renderResults  *prom.CounterVec
	exportDuration prom.Histogram
	exportOutcome  *prom.CounterVec
	catalogSize    prom.Gauge
	httpDuration   *prom.HistogramVec
	httpRequests   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.renderDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of individual resource renders",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"})
		pr.renderResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_results_total",
			Help:      "Resource render results by kind and outcome",
		}, []string{"kind", "result"})
		pr.exportDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Total static export duration",
			Buckets:   prom.DefBuckets,
		})
		pr.exportOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "export_outcomes_total",
			Help:      "Static export outcomes by final status",
		}, []string{"outcome"})
		pr.catalogSize = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_resources",
			Help:      "Number of resources in the most recently built catalog",
		})
		pr.httpDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Live server request latency",
			Buckets:   prom.DefBuckets,
		}, []string{"method"})
		pr.httpRequests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Live server requests by method and status code",
		}, []string{"method", "code"})
		reg.MustRegister(pr.renderDuration, pr.renderResults, pr.exportDuration, pr.exportOutcome, pr.catalogSize, pr.httpDuration, pr.httpRequests)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(kind string, d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderResult(kind string, result ResultLabel) {
	if p == nil || p.renderResults == nil {
		return
	}
	p.renderResults.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveExportDuration(d time.Duration) {
	if p == nil || p.exportDuration == nil {
		return
	}
	p.exportDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncExportOutcome(outcome ExportOutcomeLabel) {
	if p == nil || p.exportOutcome == nil {
		return
	}
	p.exportOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetCatalogSize(n int) {
	if p == nil || p.catalogSize == nil {
		return
	}
	p.catalogSize.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveHTTPRequest(method string, status int, d time.Duration) {
	if p == nil || p.httpRequests == nil {
		return
	}
	p.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}
