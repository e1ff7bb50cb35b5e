package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
)

// Store errors
var (
	ErrNotReady = errors.New("media store not ready")
	ErrNotFound = errors.New("media file not found")
)

// Entry describes one item in a store listing.
type Entry struct {
	Name string
	Dir  bool
	Size int64
}

// Store provides path-keyed access to playable media under a single root.
// Readiness maps to the original mount check: a session must not start unless
// the root exists. The afero abstraction lets tests run against an in-memory
// tree.
type Store struct {
	fs   afero.Fs
	root string
}

// NewStore creates a store over the given filesystem rooted at root.
func NewStore(fs afero.Fs, root string) *Store {
	slog.Debug("creating media store", "root", root)
	return &Store{fs: fs, root: root}
}

// NewOsStore creates a store over the real filesystem.
func NewOsStore(root string) *Store {
	return NewStore(afero.NewOsFs(), root)
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Ready reports whether the store can serve files. The root must exist and be
// a directory; anything else is a fatal precondition for a session.
func (s *Store) Ready() error {
	info, err := s.fs.Stat(s.root)
	if err != nil {
		slog.Error("media store root unavailable", "root", s.root, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrNotReady, s.root, err)
	}
	if !info.IsDir() {
		slog.Error("media store root is not a directory", "root", s.root)
		return fmt.Errorf("%w: %s is not a directory", ErrNotReady, s.root)
	}
	return nil
}

// Open opens a file for reading. Relative paths resolve under the root;
// absolute paths are used as given.
func (s *Store) Open(path string) (afero.File, error) {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(s.root, path)
	}

	slog.Debug("opening media file", "path", full)

	f, err := s.fs.Open(full)
	if err != nil {
		slog.Error("failed to open media file", "path", full, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, full, err)
	}
	return f, nil
}

// List returns the direct children of the store root.
func (s *Store) List() ([]Entry, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		slog.Error("failed to list media store", "root", s.root, "error", err)
		return nil, fmt.Errorf("failed to list %s: %w", s.root, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{
			Name: info.Name(),
			Dir:  info.IsDir(),
			Size: info.Size(),
		})
	}

	slog.Debug("media store listed", "root", s.root, "entries", len(entries))
	return entries, nil
}
