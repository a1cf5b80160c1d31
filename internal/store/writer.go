package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/footprint-tools/argutil/internal/domain"
)

// SaveDefinitions writes a definitions document.
func (s *Store) SaveDefinitions(file string, doc *domain.Definitions) error {
	if doc == nil {
		doc = domain.NewDefinitions()
	}
	return s.save(file, doc)
}

// SaveDefaults writes a defaults document.
func (s *Store) SaveDefaults(file string, doc domain.Defaults) error {
	if doc == nil {
		doc = domain.Defaults{}
	}
	return s.save(file, map[string]any(doc))
}

// SaveDocument writes any JSON-encodable document.
func (s *Store) SaveDocument(file string, v any) error {
	return s.save(file, v)
}

// UpdateDefaults loads the defaults document while holding the lock next to
// it, runs fn and saves the result when fn succeeds.
func (s *Store) UpdateDefaults(file string, fn func(domain.Defaults) error) error {
	path := s.Path(file)
	return WithLock(path, func() error {
		doc, err := s.LoadDefaults(path, domain.ModeAppend)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return s.SaveDefaults(path, doc)
	})
}

func (s *Store) save(file string, v any) error {
	path := s.Path(file)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	s.logger.Debug("store: saved %s", path)
	return nil
}

// writeFile replaces path with data through a temporary file in the same
// directory and a rename.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmpFile.Chmod(0644); err != nil {
		return err
	}
	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
