package localstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one <key>.json file per key inside a directory.
type FileStore struct {
	dir string
}

// OpenFile creates the directory if needed and returns a FileStore on it.
func OpenFile(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	// keys are fixed identifiers; the replace is a guard, not an escape scheme
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Load(key string) ([]byte, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

// Save writes via a temp file and rename so a concurrent reader never sees
// a torn blob. Concurrent writers are last-write-wins, unreconciled.
func (s *FileStore) Save(key string, data []byte) error {
	dst := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
