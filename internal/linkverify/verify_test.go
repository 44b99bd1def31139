package linkverify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	links, err := ExtractLinks(strings.NewReader(`<html><head>
<link rel="stylesheet" href="/css/site.css"><script src="/lib/a.js"></script></head>
<body><a href="/Blog/x">x</a><img src="logo.png"><a>no href</a></body></html>`))
	require.NoError(t, err)
	require.Equal(t, []Link{
		{URL: "/css/site.css", Tag: "link", Attribute: "href"},
		{URL: "/lib/a.js", Tag: "script", Attribute: "src"},
		{URL: "/Blog/x", Tag: "a", Attribute: "href"},
		{URL: "logo.png", Tag: "img", Attribute: "src"},
	}, links)
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/css/site.css", "/css/site.css", true},
		{"/Blog/x?page=2#top", "/Blog/x", true},
		{"/a%20b", "/a b", true},
		{"https://example.com/x", "", false},
		{"//cdn.example.com/x.js", "", false},
		{"#section", "", false},
		{"mailto:me@example.com", "", false},
		{"relative.html", "", false},
	}
	for _, tt := range tests {
		got, ok := LocalPath(tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestVerifier(t *testing.T) {
	root := t.TempDir()
	write := func(rel, body string) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	write("index.html", `<a href="/">home</a><a href="/Blog/ok">ok</a><a href="/Blog/gone">gone</a>`+
		`<link href="/css/site.css"><script src="/lib/missing.js"></script><a href="https://x.test/">ext</a>`)
	write("Blog/ok/index.html", `<a href="/Blog/ok/">self</a>`)
	write("css/site.css", "body{}")

	broken, err := NewVerifier(root, "").Verify([]string{"index.html", "Blog/ok/index.html"})
	require.NoError(t, err)
	require.Len(t, broken, 2)
	require.Equal(t, "/Blog/gone", broken[0].Link.URL)
	require.Equal(t, "/lib/missing.js", broken[1].Link.URL)
	require.Equal(t, "index.html", broken[0].Page)
}

func TestVerifier_MissingPage(t *testing.T) {
	_, err := NewVerifier(t.TempDir(), "").Verify([]string{"nope.html"})
	require.Error(t, err)
}
