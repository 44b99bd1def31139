// Package site serves the blog over HTTP and renders individual routes for static export.
package site

import (
	"context"
	"fmt"
	"net/http"
)

// Renderer produces the final bytes served at a route.
type Renderer interface {
	Render(ctx context.Context, route string) ([]byte, error)
}

// RenderError reports a route that could not be rendered.
type RenderError struct {
	Route string
	// Status is the HTTP status the handler answered with, or 0 when no response was produced.
	Status int
	Err    error
}

func (e *RenderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("render %s: status %d %s: %v", e.Route, e.Status, http.StatusText(e.Status), e.Err)
	}
	return fmt.Sprintf("render %s: %v", e.Route, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Config controls page presentation.
type Config struct {
	Title       string
	Description string
	// WebRoot is the directory static assets are served from.
	WebRoot string
	// HideDrafts answers 404 for draft posts and leaves them off the home page.
	HideDrafts  bool
	Stylesheets []string
	Scripts     []string
	Favicon     string
}
