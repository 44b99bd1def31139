// Package metrics provides observability hooks for rendering, export and serving.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics can be switched on without touching call sites:
//
//	reg := prometheus.NewRegistry()
//	gen := export.NewGenerator(renderer, export.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
