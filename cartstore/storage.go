package cartstore

import (
	"errors"
	"os"
	"path/filepath"
)

// Storage is a string-keyed blob store that survives restarts. Load returns
// (nil, nil) for a key that has never been saved.
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// FileStorage keeps each key as a file inside one directory.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (f *FileStorage) Save(key string, data []byte) error {
	return os.WriteFile(f.path(key), data, 0644)
}

func (f *FileStorage) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}
