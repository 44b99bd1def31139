package commands

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogpress/internal/blog"
	"git.home.luguber.info/inful/blogpress/internal/catalog"
	"git.home.luguber.info/inful/blogpress/internal/config"
	"git.home.luguber.info/inful/blogpress/internal/export"
	"git.home.luguber.info/inful/blogpress/internal/markdown"
	"git.home.luguber.info/inful/blogpress/internal/metrics"
	"git.home.luguber.info/inful/blogpress/internal/server"
	"git.home.luguber.info/inful/blogpress/internal/site"
)

// Pipeline holds the components shared by the serve, export and routes commands.
type Pipeline struct {
	Config   *config.Config
	Scanner  *blog.Scanner
	Handler  *site.Handler
	Literals []catalog.Descriptor
	Registry *prometheus.Registry
	Recorder metrics.Recorder
}

// NewPipeline wires scanner, site handler and metrics from cfg.
func NewPipeline(cfg *config.Config) (*Pipeline, error) {
	literals, err := literalResources(cfg.Export.Resources)
	if err != nil {
		return nil, err
	}
	scanner := blog.NewScanner(cfg.Content.Root, cfg.Content.RoutePrefix, cfg.Content.IndexFile)
	handler, err := site.NewHandler(siteConfig(cfg, literals), scanner, markdown.NewConverter())
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	return &Pipeline{
		Config:   cfg,
		Scanner:  scanner,
		Handler:  handler,
		Literals: literals,
		Registry: reg,
		Recorder: metrics.NewPrometheusRecorder(reg),
	}, nil
}

func literalResources(resources []config.ResourceConfig) ([]catalog.Descriptor, error) {
	out := make([]catalog.Descriptor, 0, len(resources))
	for _, r := range resources {
		kind, err := catalog.ParseKind(r.Kind)
		if err != nil {
			return nil, err
		}
		out = append(out, catalog.Descriptor{Kind: kind, Route: r.Route})
	}
	return out, nil
}

// siteConfig links the literal stylesheet, script and icon resources from every page.
func siteConfig(cfg *config.Config, literals []catalog.Descriptor) site.Config {
	sc := site.Config{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		WebRoot:     cfg.Site.WebRoot,
		HideDrafts:  cfg.Content.HideDrafts,
	}
	for _, d := range literals {
		route := blog.NormalizeRoute(d.Route)
		switch d.Kind {
		case catalog.KindStylesheet:
			sc.Stylesheets = append(sc.Stylesheets, route)
		case catalog.KindScript:
			sc.Scripts = append(sc.Scripts, route)
		case catalog.KindBinary:
			if sc.Favicon == "" && strings.EqualFold(path.Ext(route), ".ico") {
				sc.Favicon = route
			}
		}
	}
	return sc
}

// Catalog scans the content root and lists every resource an export writes:
// one page per immediate sub-directory, drafts included unless content.hide_drafts is set.
func (p *Pipeline) Catalog() (*catalog.Catalog, error) {
	entries, err := p.entries()
	if err != nil {
		return nil, err
	}
	return catalog.New(p.Literals, entries, catalog.WithDefaultDocument(p.Config.Export.DefaultDocument))
}

func (p *Pipeline) entries() ([]blog.EntryDirectory, error) {
	if !p.Config.Content.HideDrafts {
		return p.Scanner.Scan()
	}
	posts, err := p.Scanner.LoadAll(false)
	if err != nil {
		return nil, err
	}
	entries := make([]blog.EntryDirectory, 0, len(posts))
	for _, post := range posts {
		entries = append(entries, post.Entry)
	}
	return entries, nil
}

// Generator returns a generator rendering through the live site handler.
func (p *Pipeline) Generator() *export.Generator {
	ec := p.Config.Export
	return export.NewGenerator(site.NewHandlerRenderer(p.Handler),
		export.WithWorkers(ec.Workers),
		export.WithRecorder(p.Recorder),
		export.WithClean(ec.Clean),
		export.WithManifest(ec.Manifest),
		export.WithLinkCheck(ec.VerifyLinks),
		export.WithDefaultDocument(ec.DefaultDocument),
	)
}

// Export builds a fresh catalog and writes it below dest.
func (p *Pipeline) Export(ctx context.Context, dest string) (*export.Result, error) {
	cat, err := p.Catalog()
	if err != nil {
		return nil, err
	}
	return p.Generator().Generate(ctx, cat, dest)
}

// ErrorPage serves the site's error route regardless of the request path.
func (p *Pipeline) ErrorPage() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r2 := r.Clone(r.Context())
		r2.Method = http.MethodGet
		r2.URL.Path = site.ErrorRoute
		r2.URL.RawPath = ""
		p.Handler.ServeHTTP(w, r2)
	})
}

// Server returns the live server for the pipeline's site.
func (p *Pipeline) Server() *server.Server {
	return server.New(p.Config.Server, p.Handler,
		server.WithRecorder(p.Recorder),
		server.WithMetricsHandler(metrics.HTTPHandler(p.Registry)),
		server.WithErrorPage(p.ErrorPage()),
	)
}
