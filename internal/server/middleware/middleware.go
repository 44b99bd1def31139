// Package middleware provides HTTP middleware for the blogpress live server.
package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
	"git.home.luguber.info/inful/blogpress/internal/logfields"
	"git.home.luguber.info/inful/blogpress/internal/metrics"
)

// HSTSMaxAge is the Strict-Transport-Security max-age, 30 days.
const HSTSMaxAge = 30 * 24 * time.Hour

// Chain returns a middleware wrapper that applies logging and panic recovery around a handler.
// When errorPage is non-nil a panic renders it with status 500; otherwise a JSON error is written.
func Chain(logger *slog.Logger, adapter *ferrors.HTTPErrorAdapter, recorder metrics.Recorder, errorPage http.Handler) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return func(next http.Handler) http.Handler {
		return loggingMiddleware(logger, recorder, panicRecoveryMiddleware(logger, adapter, errorPage, next))
	}
}

// loggingMiddleware logs method, path, status, duration and remote addr.
func loggingMiddleware(logger *slog.Logger, recorder metrics.Recorder, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start)
		recorder.ObserveHTTPRequest(r.Method, wrapped.statusCode, duration)
		logger.Info("HTTP request",
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			logfields.Status(wrapped.statusCode),
			logfields.Duration(duration),
			logfields.RemoteAddr(r.RemoteAddr))
	})
}

// panicRecoveryMiddleware recovers from panics and answers with the error page or a classified JSON error.
func panicRecoveryMiddleware(logger *slog.Logger, adapter *ferrors.HTTPErrorAdapter, errorPage, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.Error("HTTP handler panic",
				slog.Any("panic", rec),
				logfields.Path(r.URL.Path),
				logfields.Method(r.Method),
				logfields.RemoteAddr(r.RemoteAddr))

			if errorPage != nil {
				errorPage.ServeHTTP(&statusOverride{ResponseWriter: w, status: http.StatusInternalServerError}, r)
				return
			}
			panicErr := ferrors.InternalError("internal server error").
				WithContext(logfields.KeyPath, r.URL.Path).
				WithContext(logfields.KeyMethod, r.Method).
				Build()
			adapter.WriteErrorResponse(w, r, panicErr)
		}()
		next.ServeHTTP(w, r)
	})
}

// HTTPSRedirect redirects plain HTTP requests to HTTPS with 307, keeping the path and query.
// Requests marked https by X-Forwarded-Proto are passed through.
func HTTPSRedirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isHTTPS(r) {
			next.ServeHTTP(w, r)
			return
		}
		host := r.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		http.Redirect(w, r, "https://"+host+r.URL.RequestURI(), http.StatusTemporaryRedirect)
	})
}

// HSTS adds a Strict-Transport-Security header to HTTPS responses.
func HSTS(maxAge time.Duration) func(http.Handler) http.Handler {
	value := "max-age=" + strconv.FormatInt(int64(maxAge/time.Second), 10)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHTTPS(r) {
				w.Header().Set("Strict-Transport-Security", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

// responseWriter captures status codes for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// statusOverride forces the status code of whatever the wrapped handler writes.
type statusOverride struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusOverride) WriteHeader(int) {
	if s.wroteHeader {
		return
	}
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(s.status)
}

func (s *statusOverride) Write(b []byte) (int, error) {
	s.WriteHeader(s.status)
	return s.ResponseWriter.Write(b)
}
