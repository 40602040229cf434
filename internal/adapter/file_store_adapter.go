package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syllabus-buddy/internal/domain"

	"github.com/spf13/afero"
)

const fileStoreExt = ".json"

// FileStoreAdapter implements domain.KeyValueStore with one file per key.
// It is the local-disk counterpart of browser localStorage.
type FileStoreAdapter struct {
	fs  afero.Fs
	dir string
	mu  sync.RWMutex
}

// NewFileStoreAdapter creates the store directory on fs if needed.
func NewFileStoreAdapter(fs afero.Fs, dir string) (*FileStoreAdapter, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &FileStoreAdapter{fs: fs, dir: dir}, nil
}

func (f *FileStoreAdapter) path(key string) string {
	name := strings.NewReplacer(":", ".", "/", "_", string(filepath.Separator), "_").Replace(key)
	return filepath.Join(f.dir, name+fileStoreExt)
}

// Get reads the file stored for key.
func (f *FileStoreAdapter) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := afero.ReadFile(f.fs, f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrKeyNotFound
		}
		return "", err
	}
	return string(data), nil
}

// Set writes value through a temp file and rename so readers never see a partial write.
func (f *FileStoreAdapter) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.path(key)
	tmp := target + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := f.fs.Rename(tmp, target); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return nil
}

// Delete removes the file for key. Missing files are not an error.
func (f *FileStoreAdapter) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fs.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Ping checks that the store directory is still reachable.
func (f *FileStoreAdapter) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := f.fs.Stat(f.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("store path %s is not a directory", f.dir)
	}
	return nil
}
