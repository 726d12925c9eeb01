// Package watch notifies callers when any of a set of files changes on disk.
// Events are debounced so an editor's save (often several writes or an
// atomic rename) triggers one callback.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"resumeforge/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when no debounce delay is configured
const DefaultDebounce = time.Second

// ChangeFunc receives the watched files that changed since the last call
type ChangeFunc func(changed []string)

type fileState struct {
	modTime time.Time
	size    int64
}

// FileWatcher watches files for changes and calls back after a quiet period
type FileWatcher struct {
	mu sync.RWMutex

	files []string // absolute paths
	state map[string]fileState

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}
	done       chan struct{}

	onChange ChangeFunc
	logger   *errors.Logger

	running bool
}

// NewFileWatcher creates a watcher for files. Empty paths are ignored.
func NewFileWatcher(files []string, debounceDelay time.Duration, onChange ChangeFunc, logger *errors.Logger) (*FileWatcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}
	if debounceDelay <= 0 {
		debounceDelay = DefaultDebounce
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}

	var abs []string
	for _, f := range files {
		if f == "" {
			continue
		}
		p, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		if !slices.Contains(abs, p) {
			abs = append(abs, p)
		}
	}
	if len(abs) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	return &FileWatcher{
		files:         abs,
		state:         make(map[string]fileState),
		debounceDelay: debounceDelay,
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		onChange:      onChange,
		logger:        logger,
	}, nil
}

// Start begins watching the files for changes
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.running {
		return fmt.Errorf("file watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	fw.fsWatcher = watcher

	if err := fw.snapshot(); err != nil {
		fw.closeWatcher()
		return fmt.Errorf("failed to get initial file state: %w", err)
	}

	// Watching directories also catches atomic saves (write temp, rename).
	var dirs []string
	for _, file := range fw.files {
		dir := filepath.Dir(file)
		if slices.Contains(dirs, dir) {
			continue
		}
		if err := fw.fsWatcher.Add(dir); err != nil {
			fw.closeWatcher()
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		dirs = append(dirs, dir)
	}

	fw.stopChan = make(chan struct{})
	fw.done = make(chan struct{})
	fw.running = true
	go fw.watchLoop()

	fw.logger.Info("File watcher started",
		"files", fw.files,
		"debounce_delay", fw.debounceDelay)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return nil
	}

	close(fw.stopChan)
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	err := fw.fsWatcher.Close()
	fw.running = false
	done := fw.done
	fw.mu.Unlock()

	<-done

	if err != nil {
		fw.logger.LogError(err, "Failed to close file system watcher")
		return err
	}
	fw.logger.Info("File watcher stopped")
	return nil
}

// Run starts the watcher and blocks until ctx is done
func (fw *FileWatcher) Run(ctx context.Context) error {
	if err := fw.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return fw.Stop()
}

func (fw *FileWatcher) closeWatcher() {
	if fw.fsWatcher != nil {
		if err := fw.fsWatcher.Close(); err != nil {
			fw.logger.LogError(err, "Failed to close file watcher during cleanup")
		}
	}
}

// snapshot records the current state of every watched file
func (fw *FileWatcher) snapshot() error {
	for _, file := range fw.files {
		stat, err := os.Stat(file)
		if err == nil {
			fw.state[file] = fileState{modTime: stat.ModTime(), size: stat.Size()}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat file %s: %w", file, err)
		}
	}
	return nil
}

// hasFileChanged checks if a file differs from its recorded state and
// updates the record
func (fw *FileWatcher) hasFileChanged(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			if _, exists := fw.state[file]; exists {
				delete(fw.state, file)
				return true
			}
		}
		return false
	}

	current := fileState{modTime: stat.ModTime(), size: stat.Size()}
	last, exists := fw.state[file]
	if !exists || !current.modTime.Equal(last.modTime) || current.size != last.size {
		fw.state[file] = current
		return true
	}
	return false
}

func (fw *FileWatcher) watchLoop() {
	defer close(fw.done)
	for {
		select {
		case event, ok := <-fw.fsWatcher.Events:
			if !ok {
				return
			}
			if fw.shouldProcessEvent(event) {
				fw.scheduleReload()
			}

		case err, ok := <-fw.fsWatcher.Errors:
			if !ok {
				return
			}
			fw.logger.LogError(err, "File watcher error")

		case <-fw.reloadChan:
			var changed []string
			for _, file := range fw.files {
				if fw.hasFileChanged(file) {
					changed = append(changed, file)
				}
			}
			if len(changed) > 0 {
				fw.logger.Debug("Watched files changed", "files", changed)
				fw.onChange(changed)
			}

		case <-fw.stopChan:
			return
		}
	}
}

// shouldProcessEvent reports whether an event touches a watched file
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !slices.Contains(fw.files, filepath.Clean(event.Name)) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

// scheduleReload schedules a debounced reload
func (fw *FileWatcher) scheduleReload() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}

	fw.debounceTimer = time.AfterFunc(fw.debounceDelay, func() {
		select {
		case fw.reloadChan <- struct{}{}:
		default:
			// reload already pending
		}
	})
}

// IsRunning returns whether the watcher is currently running
func (fw *FileWatcher) IsRunning() bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.running
}

// Files returns the absolute paths being watched
func (fw *FileWatcher) Files() []string {
	return slices.Clone(fw.files)
}
