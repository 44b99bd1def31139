package site

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
)

// HandlerRenderer renders routes by serving an in-process request through an
// http.Handler, so exported bytes match what the live server answers.
type HandlerRenderer struct {
	handler http.Handler
}

// NewHandlerRenderer returns a Renderer backed by h.
func NewHandlerRenderer(h http.Handler) *HandlerRenderer {
	return &HandlerRenderer{handler: h}
}

// Render issues GET route against the handler. Any status other than 200 is a *RenderError.
func (r *HandlerRenderer) Render(ctx context.Context, route string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &RenderError{Route: route, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return nil, &RenderError{Route: route, Err: err}
	}
	req.URL = &url.URL{Path: route}
	req.RequestURI = req.URL.RequestURI()
	req.Host = "localhost"

	rec := httptest.NewRecorder()
	r.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		return nil, &RenderError{Route: route, Status: rec.Code, Err: fmt.Errorf("unexpected response status %d", rec.Code)}
	}
	return rec.Body.Bytes(), nil
}
