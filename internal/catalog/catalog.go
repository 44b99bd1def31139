// Package catalog holds the complete list of resources a static export produces.
package catalog

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"git.home.luguber.info/inful/blogpress/internal/blog"
	"git.home.luguber.info/inful/blogpress/internal/foundation"
	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
	"git.home.luguber.info/inful/blogpress/internal/logfields"
)

// DefaultDocument is the file name a page route is written to.
const DefaultDocument = "index.html"

// ErrDuplicateRoute reports two resources that resolve to the same output file.
var ErrDuplicateRoute = errors.New("duplicate route")

// ErrOutputPathConflict reports a resource whose output file would have to be a
// directory holding another resource's output.
var ErrOutputPathConflict = errors.New("output path conflict")

// Kind classifies a resource by how its bytes are produced and stored.
type Kind string

const (
	KindPage       Kind = "page"
	KindStylesheet Kind = "css"
	KindScript     Kind = "js"
	KindBinary     Kind = "bin"
)

// ParseKind maps a configured kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	if k, ok := kinds.Lookup(s); ok {
		return k, nil
	}
	return "", ferrors.ValidationError("unknown resource kind").
		WithContext(logfields.KeyKind, s).
		WithContext("allowed", "page, css, js, bin").
		Build()
}

var kinds = foundation.NewEnum(map[string]Kind{
	"page":       KindPage,
	"html":       KindPage,
	"css":        KindStylesheet,
	"stylesheet": KindStylesheet,
	"js":         KindScript,
	"script":     KindScript,
	"bin":        KindBinary,
	"binary":     KindBinary,
	"asset":      KindBinary,
})

// Descriptor is one resource in the catalog.
type Descriptor struct {
	Kind  Kind
	Route string
}

// Option configures catalog construction.
type Option func(*Catalog)

// WithDefaultDocument sets the file name page routes are written to.
func WithDefaultDocument(name string) Option {
	return func(c *Catalog) {
		if name != "" {
			c.defaultDocument = name
		}
	}
}

// Catalog is an immutable, ordered set of resources with distinct output paths.
type Catalog struct {
	entries         []Descriptor
	defaultDocument string
}

// New builds a catalog from the literal resources followed by one page per blog
// entry, in that order. Routes are normalized. Two resources that resolve to the
// same output path fail with ErrDuplicateRoute; a file output that is a parent
// directory of another output fails with ErrOutputPathConflict.
func New(literals []Descriptor, entries []blog.EntryDirectory, opts ...Option) (*Catalog, error) {
	c := &Catalog{defaultDocument: DefaultDocument}
	for _, opt := range opts {
		opt(c)
	}

	c.entries = make([]Descriptor, 0, len(literals)+len(entries))
	for _, d := range literals {
		c.entries = append(c.entries, Descriptor{Kind: d.Kind, Route: blog.NormalizeRoute(d.Route)})
	}
	for _, e := range entries {
		c.entries = append(c.entries, Descriptor{Kind: KindPage, Route: blog.NormalizeRoute(e.Route)})
	}

	seen := make(map[string]Descriptor, len(c.entries))
	for _, d := range c.entries {
		if err := validate(d); err != nil {
			return nil, err
		}
		out := c.OutputPath(d)
		if prev, dup := seen[strings.ToLower(out)]; dup {
			return nil, ferrors.ConfigError("duplicate route in resource catalog").
				WithCause(fmt.Errorf("%w: %s and %s both write %s", ErrDuplicateRoute, prev.Route, d.Route, out)).
				WithContext(logfields.KeyRoute, d.Route).
				WithContext("conflicts_with", prev.Route).
				WithContext(logfields.KeyOutput, out).
				Build()
		}
		seen[strings.ToLower(out)] = d
	}
	for _, d := range c.entries {
		out := c.OutputPath(d)
		for dir := path.Dir(out); dir != "."; dir = path.Dir(dir) {
			prev, clash := seen[strings.ToLower(dir)]
			if !clash {
				continue
			}
			return nil, ferrors.ConfigError("conflicting output paths in resource catalog").
				WithCause(fmt.Errorf("%w: %s writes file %s, %s needs it as a directory", ErrOutputPathConflict, prev.Route, dir, d.Route)).
				WithContext(logfields.KeyRoute, d.Route).
				WithContext("conflicts_with", prev.Route).
				WithContext(logfields.KeyOutput, out).
				Build()
		}
	}
	return c, nil
}

func validate(d Descriptor) error {
	switch d.Kind {
	case KindPage, KindStylesheet, KindScript, KindBinary:
	default:
		return ferrors.ValidationError("unknown resource kind").
			WithContext(logfields.KeyKind, string(d.Kind)).
			WithContext(logfields.KeyRoute, d.Route).
			Build()
	}
	for _, seg := range strings.Split(d.Route, "/") {
		if seg == ".." {
			return ferrors.ValidationError("route escapes the export root").
				WithContext(logfields.KeyRoute, d.Route).
				Build()
		}
	}
	if d.Kind != KindPage && d.Route == "/" {
		return ferrors.ValidationError("only a page can be served at the root route").
			WithContext(logfields.KeyKind, string(d.Kind)).
			Build()
	}
	return nil
}

// Entries returns a copy of the catalog's descriptors in order.
func (c *Catalog) Entries() []Descriptor {
	out := make([]Descriptor, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of resources.
func (c *Catalog) Len() int { return len(c.entries) }

// Routes returns the catalog's routes in order.
func (c *Catalog) Routes() []string {
	out := make([]string, len(c.entries))
	for i, d := range c.entries {
		out[i] = d.Route
	}
	return out
}

// OutputPath returns the slash-separated path, relative to the export root, that d is written to.
//
//	/                 -> index.html
//	/Blog/first-post  -> Blog/first-post/index.html
//	/css/site.css     -> css/site.css
func (c *Catalog) OutputPath(d Descriptor) string {
	rel := strings.TrimPrefix(blog.NormalizeRoute(d.Route), "/")
	if d.Kind != KindPage {
		return rel
	}
	if rel == "" {
		return c.defaultDocument
	}
	if strings.EqualFold(path.Ext(rel), ".html") {
		return rel
	}
	return rel + "/" + c.defaultDocument
}
