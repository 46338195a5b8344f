package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// File stores every blob as a JSON file named after its key in a directory.
type File struct {
	dir string
}

// OpenFile opens the directory store, creating the directory if needed.
func OpenFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create store directory %q: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

// sanitizeKey makes a key safe for use as a filename.
func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, sanitizeKey(key)+".json")
}

// Get reads the blob of key. A missing key matches fs.ErrNotExist.
func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	return os.ReadFile(f.path(key))
}

// Put replaces the blob of key. The file is written aside and renamed, so
// that a crash never leaves a truncated blob behind.
func (f *File) Put(_ context.Context, key string, data []byte) error {
	name := f.path(key)
	tmp, err := os.CreateTemp(f.dir, filepath.Base(name)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		return err
	}
	log.Debug().Str("file", name).Int("bytes", len(data)).Msg("blob saved")
	return nil
}

func (f *File) Close() error { return nil }
