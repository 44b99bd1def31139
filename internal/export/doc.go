// Package export pre-renders every resource in a catalog into a destination directory.
//
// Each descriptor is rendered through a site.Renderer and written to the path the
// catalog assigns it, replacing any existing file. The first render failure aborts
// the run with an error matching ErrRenderFailure.
package export
