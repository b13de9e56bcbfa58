// Package batch implements parallel chunking of file trees with
// progress reporting.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/spetr/code-chunker/builtin/parsing/treesitter"
	"github.com/spetr/code-chunker/internal/config"
	"github.com/spetr/code-chunker/pkg/chunker"
	"github.com/spetr/code-chunker/pkg/syntax"
	"github.com/spetr/code-chunker/pkg/types"
)

// Runner chunks all matching files under a root directory.
type Runner struct {
	config *config.Config
	engine *chunker.Engine
	parser syntax.Parser
	root   string

	progressMu sync.Mutex
	progress   types.ChunkProgress
	onProgress func(types.ChunkProgress)
}

// Config contains runner configuration.
type Config struct {
	Root       string
	Config     *config.Config
	Engine     *chunker.Engine
	Parser     syntax.Parser
	OnProgress func(types.ChunkProgress)
}

// New creates a new runner.
func New(cfg Config) *Runner {
	return &Runner{
		config:     cfg.Config,
		engine:     cfg.Engine,
		parser:     cfg.Parser,
		root:       cfg.Root,
		onProgress: cfg.OnProgress,
	}
}

// Run scans the root, chunks every matching file in parallel and
// returns all chunks ordered by file path and start byte.
func (r *Runner) Run(ctx context.Context) ([]*types.Chunk, error) {
	r.updateProgress("scanning", 0, 0, 0, "", nil)

	files, err := r.scanFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan files: %w", err)
	}

	slog.Info("scanned files", "total", len(files))
	r.updateProgress("chunking", len(files), 0, 0, "", nil)

	workers := r.config.Limits.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	results := make([][]*types.Chunk, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var processed, produced int
	for i, file := range files {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			chunks, err := r.ChunkFile(file)
			if err != nil {
				// Per-file failures are reported, never fatal for the run.
				slog.Warn("chunking failed", "file", file.Path, "error", err)
				r.updateProgress("", 0, 0, 0, file.Path, err)
				return nil
			}
			results[i] = chunks

			r.progressMu.Lock()
			processed++
			produced += len(chunks)
			p, n := processed, produced
			r.progressMu.Unlock()
			r.updateProgress("chunking", 0, p, n, file.Path, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*types.Chunk
	for _, chunks := range results {
		all = append(all, chunks...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].FilePath != all[j].FilePath {
			return all[i].FilePath < all[j].FilePath
		}
		return all[i].StartByte < all[j].StartByte
	})

	slog.Info("chunking complete", "files", len(files), "chunks", len(all))
	return all, nil
}

// ChunkFile chunks a single source file. Files whose language has no
// grammar, or whose tree is malformed, degrade to the sliding window.
func (r *Runner) ChunkFile(file *types.SourceFile) ([]*types.Chunk, error) {
	tree, lang, err := r.parser.Parse(file)
	if err != nil {
		if errors.Is(err, types.ErrUnsupportedLanguage) || errors.Is(err, types.ErrParseError) {
			slog.Debug("falling back to window chunking", "file", file.Path, "reason", err)
			return r.engine.ChunkText(file)
		}
		return nil, err
	}
	defer tree.Close()

	chunks, err := r.engine.Chunk(&chunker.SourceUnit{File: file, Tree: tree, Language: lang})
	if err != nil {
		if errors.Is(err, types.ErrMalformedTree) {
			slog.Warn("malformed tree, falling back to window chunking", "file", file.Path, "error", err)
			return r.engine.ChunkText(file)
		}
		return nil, err
	}
	return chunks, nil
}

// scanFiles scans the root for files to chunk.
func (r *Runner) scanFiles(ctx context.Context) ([]*types.SourceFile, error) {
	if r.config.Scan.UseGitIgnore {
		gitFiles, err := r.scanWithGit(ctx)
		if err == nil && len(gitFiles) > 0 {
			return gitFiles, nil
		}
		slog.Debug("git scan failed, falling back to filesystem", "error", err)
	}

	var files []*types.SourceFile
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		relPath, _ := filepath.Rel(r.root, path)
		if d.IsDir() {
			for _, pattern := range r.config.Scan.Exclude {
				if matchGlob(pattern, relPath+"/") {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !r.includePath(relPath) {
			return nil
		}

		file, err := r.readFile(path)
		if err != nil {
			slog.Warn("failed to read file", "path", path, "error", err)
			return nil
		}
		files = append(files, file)

		if len(files) >= r.config.Limits.MaxFiles {
			return fmt.Errorf("max files limit reached: %d", r.config.Limits.MaxFiles)
		}
		return nil
	})

	return files, err
}

// scanWithGit uses git ls-files to get tracked files.
func (r *Runner) scanWithGit(ctx context.Context) ([]*types.SourceFile, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = r.root

	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var files []*types.SourceFile
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !r.includePath(line) {
			continue
		}

		file, err := r.readFile(filepath.Join(r.root, line))
		if err != nil {
			slog.Warn("failed to read file", "path", line, "error", err)
			continue
		}
		files = append(files, file)

		if len(files) >= r.config.Limits.MaxFiles {
			break
		}
	}
	return files, nil
}

// includePath applies the include and exclude patterns to a path
// relative to the root.
func (r *Runner) includePath(relPath string) bool {
	included := false
	for _, pattern := range r.config.Scan.Include {
		if matchGlob(pattern, relPath) {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range r.config.Scan.Exclude {
		if matchGlob(pattern, relPath) {
			return false
		}
	}
	return true
}

// readFile reads a file and creates a SourceFile.
func (r *Runner) readFile(path string) (*types.SourceFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if max := r.config.Limits.MaxFileSize; max > 0 && info.Size() > max {
		return nil, fmt.Errorf("file too large: %d > %d", info.Size(), max)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		rel = path
	}
	file := &types.SourceFile{
		Path:     filepath.ToSlash(rel),
		Content:  content,
		Language: treesitter.DetectLanguage(path),
	}
	file.Hash = file.ComputeHash()
	return file, nil
}

// updateProgress updates the progress state.
func (r *Runner) updateProgress(phase string, totalFiles, processedFiles, totalChunks int, currentFile string, err error) {
	r.progressMu.Lock()
	if phase != "" {
		r.progress.Phase = phase
	}
	if totalFiles > 0 {
		r.progress.TotalFiles = totalFiles
	}
	if processedFiles > 0 {
		r.progress.ProcessedFiles = processedFiles
	}
	if totalChunks > 0 {
		r.progress.TotalChunks = totalChunks
	}
	if currentFile != "" {
		r.progress.CurrentFile = currentFile
	}
	r.progress.Err = err
	snapshot := r.progress
	cb := r.onProgress
	r.progressMu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}
