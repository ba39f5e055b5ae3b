package filesystem

import (
	"io"
	"os"
	"path/filepath"
)

// GacheFs lets gache files live on the active backend.
type GacheFs struct{}

// OpenFile opens name on the active backend. The parent directory is created
// first whenever the open may create the file.
func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	if flag&os.O_CREATE != 0 {
		if err := backend.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			return nil, err
		}
	}
	return backend.OpenFile(name, flag, perm)
}

func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return backend.MkdirAll(path, perm)
}
