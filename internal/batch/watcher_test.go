package batch

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetr/code-chunker/pkg/types"
)

func TestWatcherRechunksChangedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	var gotPath string
	var gotChunks []*types.Chunk
	w, err := NewWatcher(WatcherConfig{
		Runner: newRunner(t, root, nil),
		OnChunks: func(path string, chunks []*types.Chunk) {
			gotPath = path
			gotChunks = chunks
		},
	})
	require.NoError(t, err)
	defer w.Close()

	w.rechunkFile(filepath.Join(root, "main.go"))

	assert.Equal(t, "main.go", gotPath)
	assert.NotEmpty(t, gotChunks)
}

func TestWatcherReportsRemovedFile(t *testing.T) {
	root := t.TempDir()

	called := false
	w, err := NewWatcher(WatcherConfig{
		Runner: newRunner(t, root, nil),
		OnChunks: func(path string, chunks []*types.Chunk) {
			called = true
			assert.Equal(t, "gone.go", path)
			assert.Empty(t, chunks)
		},
	})
	require.NoError(t, err)
	defer w.Close()

	w.rechunkFile(filepath.Join(root, "gone.go"))
	assert.True(t, called, "removal not reported")
}

func TestWatcherFiltersEvents(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(WatcherConfig{
		Runner:       newRunner(t, root, nil),
		DebounceTime: time.Millisecond,
	})
	require.NoError(t, err)
	defer w.Close()

	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "node_modules", "x.js"), Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "ok.go"), Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "ignored.xyz"), Op: fsnotify.Write})

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	assert.Len(t, w.pendingFiles, 1)
	_, ok := w.pendingFiles[filepath.Join(root, "ok.go")]
	assert.True(t, ok)
}
