package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"PROFILES_BACK-END/internal/models"
)

// FileStore keeps the collection as an indented JSON array in a single file.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a FileStore for path. Call Init before serving.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the location of the backing document.
func (s *FileStore) Path() string {
	return s.path
}

// Init creates the backing document with an empty array if it does not exist.
func (s *FileStore) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", models.ErrStorage, s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %v", models.ErrStorage, err)
	}
	if err := os.WriteFile(s.path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("%w: create %s: %v", models.ErrStorage, s.path, err)
	}
	s.logger.Info("created empty data file", zap.String("path", s.path))
	return nil
}

// Load reads the whole document. An unreadable or malformed document is
// logged and treated as an empty collection, so every id reads as missing
// until the next successful Save rewrites the file.
func (s *FileStore) Load(ctx context.Context) ([]models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	profiles, err := s.read()
	if err != nil {
		s.logger.Error("error reading data file", zap.String("path", s.path), zap.Error(err))
		return []models.Profile{}, nil
	}
	return profiles, nil
}

// LoadStrict reads the whole document like Load but reports read and parse
// failures as ErrStorage instead of returning an empty collection.
func (s *FileStore) LoadStrict(ctx context.Context) ([]models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	profiles, err := s.read()
	if err != nil {
		s.logger.Error("error reading data file", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("%w: Failed to read data: %v", models.ErrStorage, err)
	}
	return profiles, nil
}

// Check reads the document and reports the failure Load would swallow.
func (s *FileStore) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.read()
	return err
}

// Save overwrites the document with profiles. The new content is written to
// a temporary file in the same directory and renamed over the old one.
func (s *FileStore) Save(ctx context.Context, profiles []models.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode profiles: %v", models.ErrStorage, err)
	}

	if err := s.writeAtomic(data); err != nil {
		s.logger.Error("error writing data file", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("%w: Failed to write data: %v", models.ErrStorage, err)
	}
	return nil
}

func (s *FileStore) read() ([]models.Profile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	profiles := make([]models.Profile, 0, len(entries))
	for i, entry := range entries {
		// null entries are holes left by older writers that deleted in place
		if bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
			continue
		}
		var p models.Profile
		if err := json.Unmarshal(entry, &p); err != nil {
			s.logger.Warn("skipping unreadable profile entry",
				zap.String("path", s.path),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (s *FileStore) writeAtomic(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
