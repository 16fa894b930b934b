package filesystem

import (
	"io"
	"os"
	"path/filepath"
)

// CacheStore backs the gache files holding resume positions and the latest
// release lookup. It goes through the active backend, so tests can swap in
// an in-memory one.
type CacheStore struct{}

// OpenFile opens name, creating its parent directory first when the file may
// be created. A fresh install has no cache directory yet.
func (CacheStore) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	if flag&os.O_CREATE != 0 {
		if err := API().MkdirAll(filepath.Dir(name), os.ModePerm); err != nil {
			return nil, err
		}
	}
	return API().OpenFile(name, flag, perm)
}

func (CacheStore) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
