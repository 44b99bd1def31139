package blog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
	"git.home.luguber.info/inful/blogpress/internal/logfields"
)

// DefaultIndexFile is the Markdown source looked up inside each post directory.
const DefaultIndexFile = "index.md"

var (
	// ErrDirectoryNotFound reports a content root that is missing or not a directory.
	ErrDirectoryNotFound = errors.New("content directory not found")
	// ErrPostNotFound reports a slug that does not name a post directory.
	ErrPostNotFound = errors.New("post not found")
)

// EntryDirectory is one post directory found under the content root.
type EntryDirectory struct {
	// DirectoryName is the raw directory name, case and characters preserved.
	DirectoryName string
	Route         string
	// Path is the directory's location on disk.
	Path string
}

// Scanner finds and loads posts below Root.
type Scanner struct {
	Root      string
	Prefix    string
	IndexFile string
}

// NewScanner returns a Scanner, substituting defaults for an empty prefix or index file name.
func NewScanner(root, prefix, indexFile string) *Scanner {
	if prefix == "" {
		prefix = DefaultRoutePrefix
	}
	if indexFile == "" {
		indexFile = DefaultIndexFile
	}
	return &Scanner{Root: root, Prefix: prefix, IndexFile: indexFile}
}

// Scan lists the immediate sub-directories of root as posts under /Blog.
func Scan(root string) ([]EntryDirectory, error) {
	return NewScanner(root, "", "").Scan()
}

// Scan returns one entry per immediate sub-directory of the content root, ordered
// by directory name. Files and nested directories are ignored. An empty root yields
// an empty slice; a missing root fails with ErrDirectoryNotFound and no entries.
// A directory name containing '\' (legal on POSIX) cannot map to a single route
// segment and fails the scan with a validation error.
func (s *Scanner) Scan() ([]EntryDirectory, error) {
	if err := s.checkRoot(); err != nil {
		return nil, err
	}

	dirents, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, ferrors.FileSystemError("failed to read content directory").
			WithCause(err).
			WithContext(logfields.KeyContentRoot, s.Root).
			Build()
	}

	entries := make([]EntryDirectory, 0, len(dirents))
	for _, d := range dirents {
		if !s.isDir(d) {
			continue
		}
		if strings.ContainsAny(d.Name(), `/\`) {
			return nil, ferrors.ValidationError("post directory name contains a path separator").
				WithContext(logfields.KeyPath, filepath.Join(s.Root, d.Name())).
				WithContext(logfields.KeyContentRoot, s.Root).
				Build()
		}
		entries = append(entries, s.entry(d.Name()))
	}
	slog.Debug("Scanned content directory", logfields.ContentRoot(s.Root), slog.Int("posts", len(entries)))
	return entries, nil
}

// Lookup resolves a request slug to its post directory. Slugs containing separators
// or dot segments are rejected without touching the file system.
func (s *Scanner) Lookup(slug string) (EntryDirectory, error) {
	if slug == "" || slug == "." || slug == ".." || strings.ContainsAny(slug, `/\`) {
		return EntryDirectory{}, s.notFound(slug)
	}
	if err := s.checkRoot(); err != nil {
		return EntryDirectory{}, err
	}
	info, err := os.Stat(filepath.Join(s.Root, slug))
	if err != nil || !info.IsDir() {
		return EntryDirectory{}, s.notFound(slug)
	}
	return s.entry(slug), nil
}

func (s *Scanner) entry(name string) EntryDirectory {
	path := filepath.Join(s.Root, name)
	return EntryDirectory{
		DirectoryName: name,
		Route:         DeriveRoute(s.Prefix, s.Root, path),
		Path:          path,
	}
}

func (s *Scanner) isDir(d fs.DirEntry) bool {
	if d.IsDir() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(s.Root, d.Name()))
	return err == nil && info.IsDir()
}

func (s *Scanner) checkRoot() error {
	info, err := os.Stat(s.Root)
	if err == nil && info.IsDir() {
		return nil
	}
	cause := fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, s.Root)
	if err != nil {
		cause = fmt.Errorf("%w: %w", ErrDirectoryNotFound, err)
	}
	return ferrors.NotFoundError("content directory not found").
		WithCause(cause).
		WithContext(logfields.KeyContentRoot, s.Root).
		Build()
}

func (s *Scanner) notFound(slug string) error {
	return ferrors.NotFoundError("post not found").
		WithCause(ErrPostNotFound).
		WithContext("slug", slug).
		Build()
}
