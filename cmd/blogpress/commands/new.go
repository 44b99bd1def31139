package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogpress/internal/blog"
	"git.home.luguber.info/inful/blogpress/internal/config"
	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
	"git.home.luguber.info/inful/blogpress/internal/frontmatter"
	"git.home.luguber.info/inful/blogpress/internal/logfields"
)

const newPostBody = "Write your post here.\n"

// NewCmd implements the 'new' command.
type NewCmd struct {
	Slug  string `arg:"" help:"Directory name of the post; it becomes the last route segment"`
	Title string `help:"Post title (derived from the slug when empty)"`
}

func (n *NewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	file, err := RunNew(cfg, n.Slug, n.Title, time.Now())
	if err != nil {
		return err
	}
	fmt.Println("Created", file)
	return nil
}

// RunNew creates content.root/<slug>/<index file> holding draft front matter and returns its path.
func RunNew(cfg *config.Config, slug, title string, now time.Time) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" || slug == "." || slug == ".." || strings.ContainsAny(slug, `/\`) {
		return "", ferrors.ValidationError("invalid post slug").
			WithContext("slug", slug).
			Build()
	}
	if strings.TrimSpace(title) == "" {
		title = blog.TitleFromSlug(slug)
	}

	if err := os.MkdirAll(cfg.Content.Root, 0o755); err != nil {
		return "", fsErr(err, "failed to create content root", cfg.Content.Root)
	}
	dir := filepath.Join(cfg.Content.Root, slug)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", ferrors.ValidationError("post already exists").
				WithContext(logfields.KeyPath, dir).
				Build()
		}
		return "", fsErr(err, "failed to create post directory", dir)
	}

	content, err := frontmatter.Compose(map[string]any{
		"title": title,
		"date":  now.UTC().Truncate(time.Second),
		"draft": true,
	}, []byte(newPostBody))
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryInternal, "failed to compose front matter").Build()
	}
	file := filepath.Join(dir, cfg.Content.IndexFile)
	if err := os.WriteFile(file, content, 0o644); err != nil {
		return "", fsErr(err, "failed to write post", file)
	}
	return file, nil
}

func fsErr(err error, msg, path string) error {
	return ferrors.FileSystemError(msg).
		WithCause(err).
		WithContext(logfields.KeyPath, path).
		Build()
}
