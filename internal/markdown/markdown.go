// Package markdown converts post bodies to HTML with the goldmark pipeline used by the site.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// DefaultHighlightStyle is the chroma style used for fenced code blocks.
const DefaultHighlightStyle = "github"

// Heading is one entry of a rendered document's table of contents.
type Heading struct {
	Level int
	ID    string
	Title string
}

// Document is the result of converting a Markdown body.
type Document struct {
	HTML     []byte
	Headings []Heading
}

// Option configures a Converter.
type Option func(*options)

type options struct {
	highlightStyle string
	hardWraps      bool
}

// WithHighlightStyle selects the chroma style for code highlighting.
func WithHighlightStyle(style string) Option {
	return func(o *options) { o.highlightStyle = style }
}

// WithHardWraps renders soft line breaks as <br>.
func WithHardWraps() Option {
	return func(o *options) { o.hardWraps = true }
}

// Converter renders Markdown to HTML. It is safe for concurrent use.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter builds a Converter with GitHub-flavoured extensions, footnotes,
// definition lists, typographic punctuation, emoji shortcodes and code highlighting.
// Raw HTML in the source is passed through.
func NewConverter(opts ...Option) *Converter {
	o := options{highlightStyle: DefaultHighlightStyle}
	for _, opt := range opts {
		opt(&o)
	}

	htmlOpts := []renderer.Option{html.WithUnsafe()}
	if o.hardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
			emoji.Emoji,
			highlighting.NewHighlighting(highlighting.WithStyle(o.highlightStyle)),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID(), parser.WithAttribute()),
		goldmark.WithRendererOptions(htmlOpts...),
	)
	return &Converter{md: md}
}

// Convert parses body (front matter already removed) and renders it to HTML,
// collecting headings that carry an id for a table of contents.
func (c *Converter) Convert(body []byte) (*Document, error) {
	ctx := parser.NewContext()
	root := c.md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var headings []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if id, found := h.AttributeString("id"); found {
			if b, ok := id.([]byte); ok {
				headings = append(headings, Heading{Level: h.Level, ID: string(b), Title: plainText(h, body)})
			}
		}
		return gmast.WalkSkipChildren, nil
	})

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, body, root); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return &Document{HTML: buf.Bytes(), Headings: headings}, nil
}

// plainText concatenates the literal text below n.
func plainText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}
