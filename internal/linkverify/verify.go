package linkverify

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
)

// BrokenLink is a root-relative link whose target is missing from the export.
type BrokenLink struct {
	Page string // Exported HTML file the link was found in, slash-separated
	Link Link
}

// Verifier resolves root-relative links against an export directory.
type Verifier struct {
	root            string
	defaultDocument string
}

// NewVerifier returns a Verifier for the export rooted at root. A link to a
// directory resolves to its defaultDocument.
func NewVerifier(root, defaultDocument string) *Verifier {
	if defaultDocument == "" {
		defaultDocument = "index.html"
	}
	return &Verifier{root: root, defaultDocument: defaultDocument}
}

// Verify parses each page (slash-separated paths relative to the root) and
// returns the broken links, ordered by page then link.
func (v *Verifier) Verify(pages []string) ([]BrokenLink, error) {
	var broken []BrokenLink
	for _, page := range pages {
		links, err := v.pageLinks(page)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			p, ok := LocalPath(l.URL)
			if !ok || v.exists(p) {
				continue
			}
			broken = append(broken, BrokenLink{Page: page, Link: l})
		}
	}
	sort.SliceStable(broken, func(i, j int) bool {
		if broken[i].Page != broken[j].Page {
			return broken[i].Page < broken[j].Page
		}
		return broken[i].Link.URL < broken[j].Link.URL
	})
	return broken, nil
}

func (v *Verifier) pageLinks(page string) ([]Link, error) {
	f, err := os.Open(filepath.Join(v.root, filepath.FromSlash(page)))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to open exported page").
			WithContext("page", page).
			Build()
	}
	defer func() { _ = f.Close() }()
	return ExtractLinks(f)
}

func (v *Verifier) exists(p string) bool {
	rel := strings.TrimPrefix(path.Clean("/"+p), "/")
	candidate := filepath.Join(v.root, filepath.FromSlash(rel))
	info, err := os.Stat(candidate)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	_, err = os.Stat(filepath.Join(candidate, v.defaultDocument))
	return err == nil
}
