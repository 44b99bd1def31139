package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogpress/internal/blog"
	"git.home.luguber.info/inful/blogpress/internal/catalog"
	"git.home.luguber.info/inful/blogpress/internal/config"
	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
	"git.home.luguber.info/inful/blogpress/internal/gate"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// fixtureConfig lays out a site with two published posts, one draft and the default static resources.
func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv(config.EnvSkipExport, "")
	t.Setenv(config.EnvForceExport, "")
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Content.Root = filepath.Join(dir, "posts")
	cfg.Site.WebRoot = filepath.Join(dir, "wwwroot")
	cfg.Export.Output = filepath.Join(dir, "out")
	cfg.Server.Addr = "127.0.0.1:0"

	writeFile(t, filepath.Join(cfg.Content.Root, "first-post", "index.md"), "---\ntitle: First\ndate: 2024-01-02\n---\n# Hello\n")
	writeFile(t, filepath.Join(cfg.Content.Root, "second-post", "index.md"), "---\ntitle: Second\ndate: 2024-02-03\n---\nBody\n")
	writeFile(t, filepath.Join(cfg.Content.Root, "wip", "index.md"), "---\ntitle: WIP\ndraft: true\n---\nSoon\n")
	writeFile(t, filepath.Join(cfg.Site.WebRoot, "lib", "highlightjs-badge.js"), "// badge\n")
	writeFile(t, filepath.Join(cfg.Site.WebRoot, "ShalzuthBlog.styles.css"), "body{}\n")
	writeFile(t, filepath.Join(cfg.Site.WebRoot, "css", "site.css"), "h1{}\n")
	writeFile(t, filepath.Join(cfg.Site.WebRoot, "favicon.ico"), "\x00\x01ico")
	return cfg
}

func newPipeline(t *testing.T, cfg *config.Config) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	return p
}

func TestSiteConfig_LinksLiteralResources(t *testing.T) {
	cfg := config.Default()
	literals, err := literalResources(cfg.Export.Resources)
	require.NoError(t, err)

	sc := siteConfig(cfg, literals)
	require.Equal(t, []string{"/ShalzuthBlog.styles.css", "/css/site.css"}, sc.Stylesheets)
	require.Equal(t, []string{"/lib/highlightjs-badge.js"}, sc.Scripts)
	require.Equal(t, "/favicon.ico", sc.Favicon)
}

func TestLiteralResources_UnknownKind(t *testing.T) {
	_, err := literalResources([]config.ResourceConfig{{Kind: "video", Route: "/a.mp4"}})
	require.Error(t, err)
}

func TestPipeline_CatalogListsEverySubdirectory(t *testing.T) {
	cfg := fixtureConfig(t)
	cat, err := newPipeline(t, cfg).Catalog()
	require.NoError(t, err)
	require.Equal(t, 8, cat.Len())
	require.Contains(t, cat.Routes(), "/Blog/first-post")
	require.Contains(t, cat.Routes(), "/Blog/wip")
}

func TestPipeline_CatalogHideDrafts(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Content.HideDrafts = true
	cat, err := newPipeline(t, cfg).Catalog()
	require.NoError(t, err)
	require.Equal(t, 7, cat.Len())
	require.NotContains(t, cat.Routes(), "/Blog/wip")

	var out bytes.Buffer
	require.NoError(t, RunExport(context.Background(), newPipeline(t, cfg), false, &out))
	require.Contains(t, out.String(), "Exported 7 files")
	require.NoDirExists(t, filepath.Join(cfg.Export.Output, "Blog", "wip"))
}

func TestPipeline_CatalogDuplicateRoute(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Export.Resources = append(cfg.Export.Resources, config.ResourceConfig{Kind: "page", Route: "/Blog/first-post"})
	_, err := newPipeline(t, cfg).Catalog()
	require.ErrorIs(t, err, catalog.ErrDuplicateRoute)
}

func TestRunRoutes(t *testing.T) {
	cfg := fixtureConfig(t)
	var out bytes.Buffer
	require.NoError(t, RunRoutes(newPipeline(t, cfg), &out))

	text := out.String()
	require.Contains(t, text, "KIND")
	require.Contains(t, text, "/Blog/second-post")
	require.Contains(t, text, "Blog/second-post/index.html")
	require.Contains(t, text, "favicon.ico")
	_, err := os.Stat(cfg.Export.Output)
	require.True(t, os.IsNotExist(err), "routes must not write anything")
}

func TestRunExport(t *testing.T) {
	cfg := fixtureConfig(t)
	var out bytes.Buffer
	require.NoError(t, RunExport(context.Background(), newPipeline(t, cfg), false, &out))
	require.Contains(t, out.String(), "Exported 8 files")

	for _, rel := range []string{
		"index.html",
		"Blog/first-post/index.html",
		"Blog/second-post/index.html",
		"Blog/wip/index.html",
		"css/site.css",
		"favicon.ico",
	} {
		require.FileExists(t, filepath.Join(cfg.Export.Output, filepath.FromSlash(rel)))
	}

	ico, err := os.ReadFile(filepath.Join(cfg.Export.Output, "favicon.ico"))
	require.NoError(t, err)
	require.Equal(t, "\x00\x01ico", string(ico))
}

func countBlogPages(t *testing.T, dest string) int {
	t.Helper()
	dirs, err := os.ReadDir(filepath.Join(dest, "Blog"))
	require.NoError(t, err)
	n := 0
	for _, d := range dirs {
		if _, err := os.Stat(filepath.Join(dest, "Blog", d.Name(), "index.html")); err == nil {
			n++
		}
	}
	return n
}

func TestRunExport_BlogPageCountMatchesSubdirectories(t *testing.T) {
	cfg := fixtureConfig(t)
	writeFile(t, filepath.Join(cfg.Content.Root, "no-index", "image.png"), "png")

	subdirs, err := os.ReadDir(cfg.Content.Root)
	require.NoError(t, err)

	require.NoError(t, RunExport(context.Background(), newPipeline(t, cfg), false, &bytes.Buffer{}))
	require.Equal(t, len(subdirs), countBlogPages(t, cfg.Export.Output))
}

func TestRunExport_DirectoryNamedLikePrefix(t *testing.T) {
	cfg := fixtureConfig(t)
	writeFile(t, filepath.Join(cfg.Content.Root, "Blog", "index.md"), "---\ntitle: About this blog\n---\nMeta.\n")

	cat, err := newPipeline(t, cfg).Catalog()
	require.NoError(t, err)
	require.Contains(t, cat.Routes(), "/Blog/Blog")
	require.NotContains(t, cat.Routes(), "/Blog")

	require.NoError(t, RunExport(context.Background(), newPipeline(t, cfg), false, &bytes.Buffer{}))
	page, err := os.ReadFile(filepath.Join(cfg.Export.Output, "Blog", "Blog", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), "About this blog")
}

func TestRunExport_SeparatorInDirectoryNameFailsBeforeWriting(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("backslash is a separator on windows")
	}
	cfg := fixtureConfig(t)
	writeFile(t, filepath.Join(cfg.Content.Root, `a\b`, "index.md"), "x\n")

	err := RunExport(context.Background(), newPipeline(t, cfg), false, &bytes.Buffer{})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.NoDirExists(t, cfg.Export.Output)
}

func TestRunExport_MissingStaticFileFails(t *testing.T) {
	cfg := fixtureConfig(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.Site.WebRoot, "css", "site.css")))

	err := RunExport(context.Background(), newPipeline(t, cfg), false, &bytes.Buffer{})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))
}

func TestRunServe_ExportsAndExitsWhenDone(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Export.Mode = config.ExportModeAuto
	cfg.Export.BuildIdentity = "ci-runner"
	cfg.Export.ExitWhenDone = true

	err := RunServe(context.Background(), newPipeline(t, cfg), gate.ExecutionContext{Identity: "ci-runner"})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(cfg.Export.Output, "index.html"))
}

func TestRunServe_GateClosedServesWithoutExport(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Export.Mode = config.ExportModeAuto
	cfg.Export.BuildIdentity = "ci-runner"
	cfg.Export.ExitWhenDone = true

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := RunServe(ctx, newPipeline(t, cfg), gate.ExecutionContext{Identity: "laptop"})
	require.NoError(t, err)
	require.NoDirExists(t, cfg.Export.Output)
}

func TestRunNew(t *testing.T) {
	cfg := fixtureConfig(t)
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	file, err := RunNew(cfg, "my-new-post", "", now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cfg.Content.Root, "my-new-post", "index.md"), file)

	scanner := blog.NewScanner(cfg.Content.Root, cfg.Content.RoutePrefix, cfg.Content.IndexFile)
	entry, err := scanner.Lookup("my-new-post")
	require.NoError(t, err)
	post, err := scanner.Load(entry)
	require.NoError(t, err)
	require.Equal(t, "My New Post", post.Title)
	require.True(t, post.Meta.Draft)
	require.True(t, post.Meta.Date.Equal(now))

	_, err = RunNew(cfg, "my-new-post", "", now)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestRunNew_RejectsBadSlugs(t *testing.T) {
	cfg := fixtureConfig(t)
	for _, slug := range []string{"", "..", "a/b", `a\b`} {
		_, err := RunNew(cfg, slug, "", time.Now())
		require.Error(t, err, slug)
		require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation), slug)
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	require.Equal(t, slog.LevelInfo, parseLogLevel(false))
	require.Equal(t, slog.LevelDebug, parseLogLevel(true))

	t.Setenv(EnvLogLevel, "WARN")
	require.Equal(t, slog.LevelWarn, parseLogLevel(false))
	t.Setenv(EnvLogLevel, "error")
	require.Equal(t, slog.LevelError, parseLogLevel(false))
}
