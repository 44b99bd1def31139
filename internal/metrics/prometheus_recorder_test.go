package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveRenderDuration("page", 15*time.Millisecond)
	pr.IncRenderResult("page", ResultSuccess)
	pr.ObserveExportDuration(500 * time.Millisecond)
	pr.IncExportOutcome(ExportSuccess)
	pr.SetCatalogSize(7)
	pr.ObserveHTTPRequest(http.MethodGet, http.StatusOK, time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	require.True(t, names["blogpress_render_results_total"])
	require.True(t, names["blogpress_export_outcomes_total"])
	require.True(t, names["blogpress_catalog_resources"])
	require.True(t, names["blogpress_http_requests_total"])
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.IncRenderResult("css", ResultFailed)
		pr.SetCatalogSize(1)
		pr.ObserveHTTPRequest(http.MethodGet, http.StatusNotFound, 0)
	})
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).SetCatalogSize(3)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "blogpress_catalog_resources 3")
}
