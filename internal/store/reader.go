package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/footprint-tools/argutil/internal/domain"
)

// readFile returns the contents of path according to mode. A nil slice
// with a nil error means the document starts out empty.
func (s *Store) readFile(path string, mode domain.LoadMode) ([]byte, error) {
	switch mode {
	case domain.ModeWrite, domain.ModeCreate:
		return nil, nil
	case domain.ModeAppend, domain.ModeRead:
	default:
		return nil, fmt.Errorf("store: invalid load mode %q", mode)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && mode == domain.ModeAppend {
		s.logger.Debug("store: %s does not exist, starting empty", path)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return data, nil
}

// LoadDefinitions reads a definitions document. A document without a
// "modules" mapping is a schema violation.
func (s *Store) LoadDefinitions(file string, mode domain.LoadMode) (*domain.Definitions, error) {
	path := s.Path(file)
	data, err := s.readFile(path, mode)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return domain.NewDefinitions(), nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("store: %s: %w", path, err)
	}
	if _, ok := raw["modules"]; !ok {
		return nil, domain.SchemaError("%s: missing \"modules\" mapping", path)
	}

	doc := domain.NewDefinitions()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("store: %s: %w", path, err)
	}
	if doc.Modules == nil {
		return nil, domain.SchemaError("%s: \"modules\" must be a mapping", path)
	}

	s.logger.Debug("store: loaded %d modules from %s", doc.Modules.Len(), path)
	return doc, nil
}

// LoadDefaults reads a defaults document.
func (s *Store) LoadDefaults(file string, mode domain.LoadMode) (domain.Defaults, error) {
	doc, err := s.LoadDocument(file, mode)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("store: loaded defaults for %d modules from %s", len(doc), s.Path(file))
	return domain.Defaults(doc), nil
}

// LoadDocument reads any JSON object document. Integral numbers decode as
// int64, the rest as float64.
func (s *Store) LoadDocument(file string, mode domain.LoadMode) (map[string]any, error) {
	path := s.Path(file)
	data, err := s.readFile(path, mode)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("store: %s: %w", path, err)
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	domain.NormalizeNumbers(doc)
	return doc, nil
}
