package export

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/blogpress/internal/catalog"
	"git.home.luguber.info/inful/blogpress/internal/config"
	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
	"git.home.luguber.info/inful/blogpress/internal/linkverify"
	"git.home.luguber.info/inful/blogpress/internal/logfields"
	"git.home.luguber.info/inful/blogpress/internal/metrics"
	"git.home.luguber.info/inful/blogpress/internal/site"
)

// WrittenFile describes one exported file.
type WrittenFile struct {
	Route string
	Kind  catalog.Kind
	// Path is slash-separated and relative to the export root.
	Path     string
	Size     int64
	Checksum string // hex sha256
}

// Result summarizes a successful export.
type Result struct {
	RunID       string
	Files       []WrittenFile
	Duration    time.Duration
	BrokenLinks []linkverify.BrokenLink
}

// Option configures a Generator.
type Option func(*Generator)

// WithWorkers renders up to n resources concurrently. n <= 1 renders sequentially in catalog order.
func WithWorkers(n int) Option { return func(g *Generator) { g.workers = n } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithClean removes the destination directory before exporting.
func WithClean(clean bool) Option { return func(g *Generator) { g.clean = clean } }

// WithManifest writes ManifestFileName after a successful export.
func WithManifest(enabled bool) Option { return func(g *Generator) { g.manifest = enabled } }

// WithLinkCheck sets how broken root-relative links in exported pages are handled.
func WithLinkCheck(mode config.LinkCheckMode) Option { return func(g *Generator) { g.linkCheck = mode } }

// WithDefaultDocument sets the document name directory links resolve to during link checks.
func WithDefaultDocument(name string) Option { return func(g *Generator) { g.defaultDocument = name } }

// Generator writes every catalog resource to disk. It never mutates the catalog or the renderer.
type Generator struct {
	renderer        site.Renderer
	workers         int
	clean           bool
	manifest        bool
	linkCheck       config.LinkCheckMode
	defaultDocument string
	recorder        metrics.Recorder
	now             func() time.Time
}

// NewGenerator returns a Generator rendering through r.
func NewGenerator(r site.Renderer, opts ...Option) *Generator {
	g := &Generator{
		renderer:        r,
		linkCheck:       config.LinkCheckOff,
		defaultDocument: catalog.DefaultDocument,
		recorder:        metrics.NoopRecorder{},
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders each catalog entry and writes it below destRoot, creating the
// directory when needed and overwriting existing files. The first failure aborts the run.
func (g *Generator) Generate(ctx context.Context, cat *catalog.Catalog, destRoot string) (*Result, error) {
	start := g.now()
	runID := uuid.NewString()
	log := slog.With(logfields.RunID(runID), logfields.Output(destRoot))
	g.recorder.SetCatalogSize(cat.Len())

	res, err := g.generate(ctx, cat, destRoot, runID, log)
	duration := time.Since(start)
	g.recorder.ObserveExportDuration(duration)
	if err != nil {
		outcome := metrics.ExportFailed
		if ctx.Err() != nil {
			outcome = metrics.ExportCanceled
		}
		g.recorder.IncExportOutcome(outcome)
		log.Error("Static export failed", logfields.Duration(duration), logfields.Error(err))
		return nil, err
	}
	res.Duration = duration
	g.recorder.IncExportOutcome(metrics.ExportSuccess)
	log.Info("Static export complete", slog.Int("files", len(res.Files)), logfields.Duration(duration))
	return res, nil
}

func (g *Generator) generate(ctx context.Context, cat *catalog.Catalog, destRoot, runID string, log *slog.Logger) (*Result, error) {
	if err := g.prepare(destRoot); err != nil {
		return nil, err
	}

	entries := cat.Entries()
	files := make([]WrittenFile, len(entries))
	if g.workers <= 1 {
		for i, d := range entries {
			if err := ctx.Err(); err != nil {
				return nil, canceled(err)
			}
			f, err := g.exportOne(ctx, cat, d, destRoot, log)
			if err != nil {
				return nil, err
			}
			files[i] = f
		}
	} else {
		eg, gctx := errgroup.WithContext(ctx)
		eg.SetLimit(g.workers)
		for i, d := range entries {
			eg.Go(func() error {
				if err := gctx.Err(); err != nil {
					return canceled(err)
				}
				f, err := g.exportOne(gctx, cat, d, destRoot, log)
				if err != nil {
					return err
				}
				files[i] = f
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	res := &Result{RunID: runID, Files: files}
	if err := g.checkLinks(destRoot, res, log); err != nil {
		return nil, err
	}
	if g.manifest {
		if err := writeManifest(destRoot, res, g.now()); err != nil {
			return nil, ferrors.FileSystemError("failed to write export manifest").
				WithCause(err).
				WithContext(logfields.KeyOutput, destRoot).
				Build()
		}
	}
	return res, nil
}

func (g *Generator) prepare(destRoot string) error {
	if destRoot == "" {
		return ferrors.ValidationError("export destination must not be empty").Build()
	}
	if g.clean {
		cleaned := filepath.Clean(destRoot)
		if cleaned == "." || cleaned == filepath.VolumeName(cleaned)+string(filepath.Separator) {
			return ferrors.ValidationError("refusing to clean this export destination").
				WithContext(logfields.KeyOutput, destRoot).
				Build()
		}
		if err := os.RemoveAll(destRoot); err != nil {
			return fsError(err, "failed to clean output directory", destRoot)
		}
	}
	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return fsError(err, "failed to create output directory", destRoot)
	}
	return nil
}

func (g *Generator) exportOne(ctx context.Context, cat *catalog.Catalog, d catalog.Descriptor, destRoot string, log *slog.Logger) (WrittenFile, error) {
	kind := string(d.Kind)
	renderStart := time.Now()
	body, err := g.renderer.Render(ctx, d.Route)
	g.recorder.ObserveRenderDuration(kind, time.Since(renderStart))
	if err != nil {
		if isCanceled(ctx, err) {
			g.recorder.IncRenderResult(kind, metrics.ResultCanceled)
			return WrittenFile{}, canceled(err)
		}
		g.recorder.IncRenderResult(kind, metrics.ResultFailed)
		return WrittenFile{}, renderFailure(d, err)
	}

	rel := cat.OutputPath(d)
	if err := writeFileAtomic(filepath.Join(destRoot, filepath.FromSlash(rel)), body); err != nil {
		g.recorder.IncRenderResult(kind, metrics.ResultFailed)
		return WrittenFile{}, err
	}
	g.recorder.IncRenderResult(kind, metrics.ResultSuccess)
	log.Debug("Exported resource", logfields.Route(d.Route), logfields.Kind(kind), logfields.Path(rel))

	return WrittenFile{
		Route:    d.Route,
		Kind:     d.Kind,
		Path:     rel,
		Size:     int64(len(body)),
		Checksum: checksum(body),
	}, nil
}

func (g *Generator) checkLinks(destRoot string, res *Result, log *slog.Logger) error {
	if g.linkCheck == config.LinkCheckOff || g.linkCheck == "" {
		return nil
	}
	var pages []string
	for _, f := range res.Files {
		if f.Kind == catalog.KindPage {
			pages = append(pages, f.Path)
		}
	}
	broken, err := linkverify.NewVerifier(destRoot, g.defaultDocument).Verify(pages)
	if err != nil {
		return err
	}
	res.BrokenLinks = broken
	for _, b := range broken {
		log.Warn("Broken link in exported page",
			logfields.Path(b.Page),
			slog.String("link", b.Link.URL),
			slog.String("tag", b.Link.Tag))
	}
	if len(broken) > 0 && g.linkCheck == config.LinkCheckFail {
		return ferrors.ValidationError("exported pages contain broken links").
			WithContext("broken_links", len(broken)).
			WithContext("first_page", broken[0].Page).
			WithContext("first_link", broken[0].Link.URL).
			Build()
	}
	return nil
}
