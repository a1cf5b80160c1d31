// Package store persists the definitions and defaults documents as JSON
// files below an explicit base directory.
package store

import (
	"os"
	"path/filepath"

	"github.com/footprint-tools/argutil/internal/domain"
	"github.com/footprint-tools/argutil/internal/log"
)

const (
	// DefinitionsFile is the default name of the definitions document.
	DefinitionsFile = "commandline.json"
	// DefaultsFile is the default name of the defaults document.
	DefaultsFile = "defaults.json"
)

// Store reads and writes documents relative to a base directory.
// It implements the domain.DocumentStore interface.
type Store struct {
	dir    string
	logger domain.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug output.
func WithLogger(l domain.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store rooted at dir. Relative file names passed to the
// Store methods are resolved against dir; absolute ones are used as is.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, logger: log.NopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the base directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path resolves file against the base directory.
func (s *Store) Path(file string) string {
	if filepath.IsAbs(file) || s.dir == "" {
		return file
	}
	return filepath.Join(s.dir, file)
}

// Exists reports whether the named document file exists.
func (s *Store) Exists(file string) bool {
	info, err := os.Stat(s.Path(file))
	return err == nil && !info.IsDir()
}

var _ domain.DocumentStore = (*Store)(nil)
