// Package jsonfile persists the document as one JSON file on local disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"invdash/internal/model"
	"invdash/internal/store"
)

// Store reads and rewrites a single file. Writes go to a temp file in the
// same directory followed by a rename, so readers never see a partial file.
type Store struct {
	path   string
	logger logrus.FieldLogger
	mu     sync.Mutex
}

var _ store.Store = (*Store)(nil)

// New returns a store backed by the file at path. The file is not created
// until the first Save.
func New(path string, logger logrus.FieldLogger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("jsonfile: path is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		path:   path,
		logger: logger.WithFields(logrus.Fields{"component": "store", "backend": "jsonfile", "file_path": path}),
	}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(_ context.Context) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrNoDocument
		}
		s.logger.WithError(err).Error("failed to read data file")
		return nil, store.Unavailable("jsonfile load", err)
	}
	doc, err := store.Decode(b)
	if err != nil {
		s.logger.WithError(err).Error("failed to decode data file")
		return nil, err
	}
	return doc, nil
}

func (s *Store) Save(_ context.Context, doc *model.Document) error {
	if doc == nil {
		return fmt.Errorf("jsonfile save: nil document")
	}
	out := *doc
	out.Normalize()
	b, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile save: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return store.Unavailable("jsonfile save", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return store.Unavailable("jsonfile save", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return store.Unavailable("jsonfile save", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return store.Unavailable("jsonfile save", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		s.logger.WithError(err).Error("failed to replace data file")
		return store.Unavailable("jsonfile save", err)
	}
	s.logger.WithField("bytes", len(b)).Debug("data file written")
	return nil
}
