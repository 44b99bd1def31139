package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogpress/internal/config"
)

func siteStub() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			panic("boom")
		}
		_, _ = io.WriteString(w, "site:"+r.URL.Path)
	})
}

func errorPageStub() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "error page")
	})
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ServesSiteAndHealth(t *testing.T) {
	s := New(config.ServerConfig{Environment: config.EnvironmentDevelopment}, siteStub())
	h := s.Handler()

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/Blog/a", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "site:/Blog/a", rec.Body.String())

	rec = serve(t, h, httptest.NewRequest(http.MethodGet, HealthPath, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "healthy", health.Status)
}

func TestHandler_MetricsEndpoint(t *testing.T) {
	metricsStub := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "metrics")
	})

	enabled := New(config.ServerConfig{Metrics: true, MetricsPath: "/metrics", Environment: config.EnvironmentDevelopment},
		siteStub(), WithMetricsHandler(metricsStub))
	rec := serve(t, enabled.Handler(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, "metrics", rec.Body.String())

	disabled := New(config.ServerConfig{MetricsPath: "/metrics", Environment: config.EnvironmentDevelopment},
		siteStub(), WithMetricsHandler(metricsStub))
	rec = serve(t, disabled.Handler(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, "site:/metrics", rec.Body.String())
}

func TestHandler_ProductionSecurity(t *testing.T) {
	s := New(config.ServerConfig{Environment: config.EnvironmentProduction, HTTPSRedirect: true}, siteStub())
	h := s.Handler()

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "http://example.com:8080/Blog/a?x=1", nil))
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Equal(t, "https://example.com/Blog/a?x=1", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/Blog/a", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = serve(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "max-age=2592000", rec.Header().Get("Strict-Transport-Security"))
}

func TestHandler_DevelopmentSkipsSecurity(t *testing.T) {
	s := New(config.ServerConfig{Environment: config.EnvironmentDevelopment, HTTPSRedirect: true}, siteStub())
	rec := serve(t, s.Handler(), httptest.NewRequest(http.MethodGet, "/Blog/a", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestHandler_PanicRecovery(t *testing.T) {
	dev := New(config.ServerConfig{Environment: config.EnvironmentDevelopment}, siteStub(), WithErrorPage(errorPageStub()))
	rec := serve(t, dev.Handler(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	prod := New(config.ServerConfig{Environment: config.EnvironmentProduction}, siteStub(), WithErrorPage(errorPageStub()))
	rec = serve(t, prod.Handler(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "error page", rec.Body.String())
}

func TestServer_StartStop(t *testing.T) {
	s := New(config.ServerConfig{Addr: "127.0.0.1:0", Environment: config.EnvironmentDevelopment}, siteStub())
	require.Empty(t, s.Addr())

	require.NoError(t, s.Start(context.Background()))
	require.Error(t, s.Start(context.Background()))

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + s.Addr() + "/Blog/x")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	require.Equal(t, "site:/Blog/x", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}

func TestServer_StartBindFailure(t *testing.T) {
	first := New(config.ServerConfig{Addr: "127.0.0.1:0", Environment: config.EnvironmentDevelopment}, siteStub())
	require.NoError(t, first.Start(context.Background()))
	t.Cleanup(func() { _ = first.Stop(context.Background()) })

	second := New(config.ServerConfig{Addr: first.Addr(), Environment: config.EnvironmentDevelopment}, siteStub())
	require.Error(t, second.Start(context.Background()))
}
