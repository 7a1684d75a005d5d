package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/urdf-preview/internal/viewer"
)

// StateStore persists the last loaded viewer model as JSON so a preview
// can be restored after a restart.
type StateStore struct {
	path string
}

// NewStateStore returns a store backed by path. An empty path disables
// persistence.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Path returns the backing file.
func (s *StateStore) Path() string {
	return s.path
}

// Save implements viewer.StateSaver. The file is replaced atomically.
func (s *StateStore) Save(m viewer.ViewerModel) error {
	if s.path == "" {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Load returns the persisted model. ok is false when nothing was saved.
func (s *StateStore) Load() (m viewer.ViewerModel, ok bool, err error) {
	if s.path == "" {
		return viewer.ViewerModel{}, false, nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return viewer.ViewerModel{}, false, nil
	}
	if err != nil {
		return viewer.ViewerModel{}, false, err
	}
	m, err = viewer.DecodeMessage(data)
	if err != nil {
		return viewer.ViewerModel{}, false, fmt.Errorf("restoring %s: %w", s.path, err)
	}
	return m, true, nil
}
