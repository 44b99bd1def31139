// Package linkverify checks that root-relative links in exported HTML resolve to exported files.
package linkverify

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/blogpress/internal/foundation/errors"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL       string // The URL or path as written
	Tag       string // HTML tag (a, img, script, link, source)
	Attribute string // Attribute containing the link (href, src)
}

var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
	"iframe": "src",
}

// ExtractLinks extracts every link-bearing attribute from an HTML document.
func ExtractLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if v := getAttr(n, attr); v != "" {
					links = append(links, Link{URL: v, Tag: n.Data, Attribute: attr})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

// LocalPath returns the root-relative path a link points at, or ok=false for
// external, protocol-relative, fragment-only and non-http links.
func LocalPath(raw string) (p string, ok bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	return u.Path, true
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
