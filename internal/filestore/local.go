package filestore

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Local writes blobs to a directory on disk, served under /uploads.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{dir: dir}, nil
}

// Save stores the blob under a uuid-prefixed name so uploads never collide.
func (l *Local) Save(name string, r io.Reader) (string, error) {
	stored := uuid.New().String() + "-" + filepath.Base(name)

	f, err := os.Create(filepath.Join(l.dir, stored))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return "/uploads/" + stored, nil
}
