package site

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogpress/internal/blog"
	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
	"git.home.luguber.info/inful/blogpress/internal/logfields"
	"git.home.luguber.info/inful/blogpress/internal/markdown"
)

// ErrorRoute serves the generic error page.
const ErrorRoute = "/Error"

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the home page, post pages, the error page and static assets.
type Handler struct {
	cfg       Config
	scanner   *blog.Scanner
	converter *markdown.Converter
	pages     map[string]*template.Template
	mux       *http.ServeMux
}

// NewHandler parses the page templates and wires the routes.
func NewHandler(cfg Config, scanner *blog.Scanner, converter *markdown.Converter) (*Handler, error) {
	if converter == nil {
		converter = markdown.NewConverter()
	}
	h := &Handler{cfg: cfg, scanner: scanner, converter: converter, pages: map[string]*template.Template{}}

	for _, name := range []string{"home", "post", "error"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to parse page template").
				WithContext("template", name).
				Build()
		}
		h.pages[name] = t
	}

	prefix := strings.TrimSuffix(blog.NormalizeRoute(scanner.Prefix), "/")
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("GET "+ErrorRoute, h.errorPage)
	mux.HandleFunc("GET "+prefix+"/{slug}", h.post)
	mux.HandleFunc("GET "+prefix+"/{slug}/{$}", h.post)
	mux.HandleFunc("GET /", h.static)
	h.mux = mux
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type pageData struct {
	Site   Config
	Title  string
	Status int
	Posts  []postSummary
	Post   *postView
}

type postSummary struct {
	Route   string
	Title   string
	Date    time.Time
	Summary string
}

type postView struct {
	Title    string
	Date     time.Time
	Tags     []string
	Headings []markdown.Heading
	Content  template.HTML
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.scanner.LoadAll(!h.cfg.HideDrafts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	summaries := make([]postSummary, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, postSummary{
			Route:   p.Entry.Route,
			Title:   p.Title,
			Date:    p.Meta.Date,
			Summary: p.Meta.Summary,
		})
	}
	h.render(w, r, "home", http.StatusOK, pageData{Posts: summaries})
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	entry, err := h.scanner.Lookup(r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			// Under a "/" prefix the post pattern also matches single-segment asset paths.
			h.static(w, r)
			return
		}
		h.fail(w, r, err)
		return
	}
	p, err := h.scanner.Load(entry)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if p.Meta.Draft && h.cfg.HideDrafts {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	doc, err := h.converter.Convert(p.Body)
	if err != nil {
		h.fail(w, r, ferrors.WrapError(err, ferrors.CategoryBuild, "failed to convert post").
			WithContext(logfields.KeyRoute, entry.Route).
			Build())
		return
	}
	h.render(w, r, "post", http.StatusOK, pageData{
		Title: p.Title,
		Post: &postView{
			Title:    p.Title,
			Date:     p.Meta.Date,
			Tags:     p.Meta.Tags,
			Headings: doc.Headings,
			// #nosec G203 -- post bodies are trusted site content and raw HTML is allowed.
			Content: template.HTML(doc.HTML),
		},
	})
}

func (h *Handler) errorPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "error", http.StatusOK, pageData{Title: "Error", Status: http.StatusInternalServerError})
}

// static serves files below the web root. Directories are never listed.
func (h *Handler) static(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if rel == "" || h.cfg.WebRoot == "" {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	full := filepath.Join(h.cfg.WebRoot, filepath.FromSlash(rel))
	f, err := os.Open(full)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Static file open failed", logfields.Path(full), logfields.Error(err))
		}
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int) {
	h.render(w, r, "error", status, pageData{Title: "Error", Status: status})
}

// fail logs err and answers with the error page, 404 for not-found errors and 500 otherwise.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if ferrors.HasCategory(err, ferrors.CategoryNotFound) {
		status = http.StatusNotFound
	}
	slog.Error("Page request failed", logfields.Path(r.URL.Path), logfields.Status(status), logfields.Error(err))
	h.renderError(w, r, status)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, status int, data pageData) {
	data.Site = h.cfg
	var buf strings.Builder
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("Template execution failed", logfields.Path(r.URL.Path), slog.String("template", page), logfields.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, buf.String()); err != nil {
		slog.Debug("Response write failed", logfields.Path(r.URL.Path), logfields.Error(fmt.Errorf("write: %w", err)))
	}
}
