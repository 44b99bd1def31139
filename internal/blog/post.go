package blog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
	"git.home.luguber.info/inful/blogpress/internal/frontmatter"
	"git.home.luguber.info/inful/blogpress/internal/logfields"
)

// Meta is the front matter recognised in a post's index file.
type Meta struct {
	Title   string    `yaml:"title"`
	Date    time.Time `yaml:"date"`
	Summary string    `yaml:"summary"`
	Tags    []string  `yaml:"tags"`
	Draft   bool      `yaml:"draft"`
}

// Post is a loaded blog entry: its directory, front matter and Markdown body.
type Post struct {
	Entry EntryDirectory
	Meta  Meta
	// Title is Meta.Title or, when that is empty, a title derived from the directory name.
	Title string
	Body  []byte
}

// Slug returns the directory name the post is published under.
func (p *Post) Slug() string { return p.Entry.DirectoryName }

// Load reads the post's index file. A post without an index file still loads,
// with an empty body and a title derived from its directory name.
func (s *Scanner) Load(entry EntryDirectory) (*Post, error) {
	post := &Post{Entry: entry, Title: TitleFromSlug(entry.DirectoryName)}

	src := filepath.Join(entry.Path, s.IndexFile)
	content, err := os.ReadFile(src)
	if errors.Is(err, fs.ErrNotExist) {
		return post, nil
	}
	if err != nil {
		return nil, ferrors.FileSystemError("failed to read post").
			WithCause(err).
			WithContext(logfields.KeyPath, src).
			Build()
	}

	doc, err := frontmatter.Split(content)
	if err == nil {
		err = doc.Decode(&post.Meta)
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid front matter").
			Fatal().
			WithContext(logfields.KeyPath, src).
			WithContext(logfields.KeyRoute, entry.Route).
			Build()
	}
	post.Body = doc.Body
	if t := strings.TrimSpace(post.Meta.Title); t != "" {
		post.Title = t
	}
	return post, nil
}

// LoadAll scans the content root and loads every post, newest first with ties broken by
// directory name. Drafts are left out unless includeDrafts is set.
func (s *Scanner) LoadAll(includeDrafts bool) ([]*Post, error) {
	entries, err := s.Scan()
	if err != nil {
		return nil, err
	}
	posts := make([]*Post, 0, len(entries))
	for _, e := range entries {
		p, err := s.Load(e)
		if err != nil {
			return nil, err
		}
		if p.Meta.Draft && !includeDrafts {
			continue
		}
		posts = append(posts, p)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		di, dj := posts[i].Meta.Date, posts[j].Meta.Date
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return posts[i].Entry.DirectoryName < posts[j].Entry.DirectoryName
	})
	return posts, nil
}

// TitleFromSlug turns a directory name such as "first-post" into "First Post".
func TitleFromSlug(slug string) string {
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
	return cases.Title(language.English).String(strings.Join(words, " "))
}
