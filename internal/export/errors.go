package export

import (
	"context"
	"errors"
	"fmt"

	"git.home.luguber.info/inful/blogpress/internal/catalog"
	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
	"git.home.luguber.info/inful/blogpress/internal/logfields"
)

// ErrRenderFailure matches any export aborted because a route failed to render.
var ErrRenderFailure = errors.New("render failure")

// RenderFailure names the route whose rendering aborted an export.
type RenderFailure struct {
	Route string
	Kind  catalog.Kind
	Err   error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("render failure for %s: %v", e.Route, e.Err)
}

// Unwrap exposes both ErrRenderFailure and the renderer's error.
func (e *RenderFailure) Unwrap() []error { return []error{ErrRenderFailure, e.Err} }

func renderFailure(d catalog.Descriptor, err error) error {
	return ferrors.BuildError("failed to render resource").
		WithCause(&RenderFailure{Route: d.Route, Kind: d.Kind, Err: err}).
		WithContext(logfields.KeyRoute, d.Route).
		WithContext(logfields.KeyKind, string(d.Kind)).
		Build()
}

func canceled(err error) error {
	return ferrors.RuntimeError("export canceled").WithCause(err).Build()
}

func isCanceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}
