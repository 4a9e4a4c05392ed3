// Package watch drives repeated analysis runs from file-system events.
package watch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher monitors a source tree and invokes a callback with the batch
// of changed files after a debounce interval.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	root      string
	exts      []string
	ignored   []string
	onChange  func([]string)
	logger    *zap.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewFileWatcher creates a watcher over root for files with the given
// extensions, skipping ignored directory names.
func NewFileWatcher(root string, exts, ignored []string, logger *zap.Logger, onChange func([]string)) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fw := &FileWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(DefaultDebounce),
		root:      root,
		exts:      exts,
		ignored:   ignored,
		onChange:  onChange,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
	fw.debouncer.SetCallback(func(files []string) {
		fw.onChange(files)
	})
	return fw, nil
}

// Start registers all directories under root and begins dispatching events.
func (fw *FileWatcher) Start() error {
	err := filepath.WalkDir(fw.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if fw.isIgnored(entry.Name()) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	fw.wg.Add(1)
	go fw.watch()
	return nil
}

// Stop stops the watcher, idempotently.
func (fw *FileWatcher) Stop() error {
	select {
	case <-fw.stopChan:
		return nil
	default:
		close(fw.stopChan)
	}
	fw.wg.Wait()
	fw.debouncer.Stop()
	return fw.watcher.Close()
}

func (fw *FileWatcher) watch() {
	defer fw.wg.Done()
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.isRelevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				fw.logger.Debug("file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
				fw.debouncer.Add(event.Name)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watch error", zap.Error(err))
		case <-fw.stopChan:
			return
		}
	}
}

func (fw *FileWatcher) isIgnored(name string) bool {
	for _, ignored := range fw.ignored {
		if name == ignored {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) isRelevant(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range fw.exts {
		if ext == candidate {
			return true
		}
	}
	return false
}
