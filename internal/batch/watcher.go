package batch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spetr/code-chunker/pkg/types"
)

// Watcher watches a file tree and re-chunks files as they change.
type Watcher struct {
	runner  *Runner
	watcher *fsnotify.Watcher
	onChunk func(path string, chunks []*types.Chunk)

	pendingMu    sync.Mutex
	pendingFiles map[string]time.Time
	debounceTime time.Duration
}

// WatcherConfig contains watcher configuration.
type WatcherConfig struct {
	Runner       *Runner
	OnChunks     func(path string, chunks []*types.Chunk)
	DebounceTime time.Duration // Default: 500ms
}

// NewWatcher creates a new file watcher over the runner's root.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounceTime := cfg.DebounceTime
	if debounceTime == 0 {
		debounceTime = 500 * time.Millisecond
	}

	return &Watcher{
		runner:       cfg.Runner,
		watcher:      watcher,
		onChunk:      cfg.OnChunks,
		pendingFiles: make(map[string]time.Time),
		debounceTime: debounceTime,
	}, nil
}

// Watch starts watching for file changes. It blocks until the context
// is cancelled.
func (w *Watcher) Watch(ctx context.Context) error {
	if err := w.addWatchDirs(); err != nil {
		return err
	}

	slog.Info("watching for file changes", "dir", w.runner.root)

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping watcher")
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

// addWatchDirs recursively adds directories to watch.
func (w *Watcher) addWatchDirs() error {
	return filepath.WalkDir(w.runner.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		relPath, _ := filepath.Rel(w.runner.root, path)
		for _, pattern := range w.runner.config.Scan.Exclude {
			if matchGlob(pattern, relPath+"/") {
				return filepath.SkipDir
			}
		}
		if strings.HasPrefix(d.Name(), ".") && relPath != "." {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			slog.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// handleEvent records a relevant file change for debounced processing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
		return
	}

	relPath, err := filepath.Rel(w.runner.root, event.Name)
	if err != nil {
		return
	}
	if !w.runner.includePath(filepath.ToSlash(relPath)) {
		return
	}

	w.pendingMu.Lock()
	w.pendingFiles[event.Name] = time.Now()
	w.pendingMu.Unlock()

	slog.Debug("file changed", "path", relPath, "op", event.Op.String())
}

// processDebounced processes pending files after the debounce period.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPendingFiles(ctx)
		}
	}
}

// processPendingFiles re-chunks files that have been stable for the
// debounce period.
func (w *Watcher) processPendingFiles(ctx context.Context) {
	w.pendingMu.Lock()
	now := time.Now()
	var toProcess []string
	for path, changedAt := range w.pendingFiles {
		if now.Sub(changedAt) >= w.debounceTime {
			toProcess = append(toProcess, path)
			delete(w.pendingFiles, path)
		}
	}
	w.pendingMu.Unlock()

	for _, path := range toProcess {
		if ctx.Err() != nil {
			return
		}
		w.rechunkFile(path)
	}
}

// rechunkFile re-chunks a single changed file and reports the result.
func (w *Watcher) rechunkFile(path string) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		rel, _ := filepath.Rel(w.runner.root, path)
		slog.Info("file removed", "file", rel)
		if w.onChunk != nil {
			w.onChunk(filepath.ToSlash(rel), nil)
		}
		return
	}
	if err != nil || info.IsDir() {
		return
	}

	file, err := w.runner.readFile(path)
	if err != nil {
		slog.Warn("failed to read file", "file", path, "error", err)
		return
	}

	chunks, err := w.runner.ChunkFile(file)
	if err != nil {
		slog.Warn("failed to chunk file", "file", file.Path, "error", err)
		return
	}

	slog.Info("re-chunked file", "file", file.Path, "chunks", len(chunks))
	if w.onChunk != nil {
		w.onChunk(file.Path, chunks)
	}
}

// Close closes the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
