package blog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
)

func writePost(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultIndexFile), []byte(content), 0o600))
}

func TestLoad_FrontMatter(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "hello", "---\ntitle: Hello There\ndate: 2024-02-03\ntags: [go]\n---\n# Body\n")
	s := NewScanner(root, "", "")

	e, err := s.Lookup("hello")
	require.NoError(t, err)
	p, err := s.Load(e)
	require.NoError(t, err)
	require.Equal(t, "Hello There", p.Title)
	require.Equal(t, 2024, p.Meta.Date.Year())
	require.Equal(t, []string{"go"}, p.Meta.Tags)
	require.Equal(t, "# Body\n", string(p.Body))
	require.Equal(t, "hello", p.Slug())
}

func TestLoad_MissingIndexDerivesTitle(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "first-post"), 0o755))
	s := NewScanner(root, "", "")

	entries, err := s.Scan()
	require.NoError(t, err)
	p, err := s.Load(entries[0])
	require.NoError(t, err)
	require.Equal(t, "First Post", p.Title)
	require.Empty(t, p.Body)
}

func TestLoad_InvalidFrontMatter(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "broken", "---\ntitle: [oops\n---\n")
	s := NewScanner(root, "", "")

	entries, err := s.Scan()
	require.NoError(t, err)
	_, err = s.Load(entries[0])
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestLoadAll_OrderAndDrafts(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "old", "---\ndate: 2020-01-01\n---\n")
	writePost(t, root, "new", "---\ndate: 2024-01-01\n---\n")
	writePost(t, root, "draft", "---\ndate: 2025-01-01\ndraft: true\n---\n")
	writePost(t, root, "b-undated", "")
	writePost(t, root, "a-undated", "")
	s := NewScanner(root, "", "")

	posts, err := s.LoadAll(false)
	require.NoError(t, err)
	var slugs []string
	for _, p := range posts {
		slugs = append(slugs, p.Slug())
	}
	require.Equal(t, []string{"new", "old", "a-undated", "b-undated"}, slugs)

	posts, err = s.LoadAll(true)
	require.NoError(t, err)
	require.Equal(t, "draft", posts[0].Slug())
}

func TestTitleFromSlug(t *testing.T) {
	require.Equal(t, "First Post", TitleFromSlug("first-post"))
	require.Equal(t, "2024 Review", TitleFromSlug("2024-review"))
	require.Equal(t, "Snake Case Name", TitleFromSlug("snake_case__name"))
}
