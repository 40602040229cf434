package appearance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syllabus-buddy/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileSource reads the preference from a colour-scheme file and follows its changes.
// A file whose content mentions "dark" (for example "dark" or "prefer-dark") means
// dark mode; anything else, including a missing file, means light.
type FileSource struct {
	*broadcaster
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
	stopped chan struct{}
}

// NewFileSource starts watching path. The parent directory must exist.
func NewFileSource(path string) (*FileSource, error) {
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create appearance watcher: %w", err)
	}
	// Watch the directory so atomic replace-by-rename is seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	f := &FileSource{
		broadcaster: newBroadcaster(readPrefersDark(path)),
		path:        path,
		watcher:     watcher,
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	go f.run()
	return f, nil
}

func (f *FileSource) run() {
	defer close(f.stopped)
	for {
		select {
		case <-f.done:
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				dark := readPrefersDark(f.path)
				logger.Get().Debug("Appearance file changed", zap.String("path", f.path), zap.Bool("dark", dark))
				f.set(dark)
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			logger.Get().Warn("Appearance watcher error", zap.String("path", f.path), zap.Error(err))
		}
	}
}

// Close stops watching. Subscribers receive no further notifications.
func (f *FileSource) Close() error {
	select {
	case <-f.done:
		return nil
	default:
	}
	close(f.done)
	err := f.watcher.Close()
	<-f.stopped
	return err
}

func readPrefersDark(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Get().Warn("Failed to read appearance file", zap.String("path", path), zap.Error(err))
		}
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), "dark")
}
