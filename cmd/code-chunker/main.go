// code-chunker splits source trees into retrieval-sized chunks.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spetr/code-chunker/builtin/parsing/treesitter"
	"github.com/spetr/code-chunker/internal/batch"
	"github.com/spetr/code-chunker/internal/config"
	"github.com/spetr/code-chunker/pkg/chunker"
	"github.com/spetr/code-chunker/pkg/tokens"
	"github.com/spetr/code-chunker/pkg/types"
)

var (
	version   = "0.1.0"
	logLevel  string
	logFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "code-chunker",
	Short: "Split source code into retrieval-sized chunks",
	Long: `code-chunker parses source files with tree-sitter and splits them
into chunks that respect syntax boundaries.

It supports:
- Five strategies (function, class, semantic, window, hybrid)
- 23 languages with graceful plain-text fallback
- Size normalization with overlap and small-chunk merging
- JSONL/JSON output for embedding pipelines`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("code-chunker %s\n", version)
		fmt.Printf("Go version: %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

var chunkCmd = &cobra.Command{
	Use:   "chunk [path]",
	Short: "Chunk a file or directory tree",
	Long: `Chunk a file or directory tree and write the chunks to stdout or
a file. If no path is provided, chunks the current directory.

Examples:
  code-chunker chunk                          # chunk current directory
  code-chunker chunk ./src --strategy function
  code-chunker chunk main.go -o chunks.jsonl
  code-chunker chunk . --format json -o chunks.json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}

		strategy, _ := cmd.Flags().GetString("strategy")
		maxSize, _ := cmd.Flags().GetInt("max-size")
		minSize, _ := cmd.Flags().GetInt("min-size")
		overlap, _ := cmd.Flags().GetInt("overlap")
		output, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")
		workers, _ := cmd.Flags().GetInt("workers")

		runChunk(path, strategy, maxSize, minSize, overlap, output, format, workers)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch for file changes and re-chunk automatically",
	Long:  `Watch for file changes and re-chunk modified files as they settle. If no path is provided, watches the current directory.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}
		debounce, _ := cmd.Flags().GetInt("debounce")
		runWatch(path, debounce)
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages",
	Run: func(cmd *cobra.Command, args []string) {
		for _, lang := range treesitter.Languages() {
			fmt.Println(lang)
		}
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration",
	Run: func(cmd *cobra.Command, args []string) {
		runConfigInit()
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Run: func(cmd *cobra.Command, args []string) {
		runConfigValidate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	chunkCmd.Flags().StringP("strategy", "s", "", "chunking strategy (function, class, semantic, window, hybrid)")
	chunkCmd.Flags().Int("max-size", 0, "maximum chunk size in characters")
	chunkCmd.Flags().Int("min-size", 0, "minimum chunk size in characters")
	chunkCmd.Flags().Int("overlap", -1, "window overlap in characters")
	chunkCmd.Flags().StringP("output", "o", "", "output path (default: stdout)")
	chunkCmd.Flags().StringP("format", "f", "", "output format (jsonl, json)")
	chunkCmd.Flags().IntP("workers", "w", 0, "parallel workers (0 = number of CPUs)")

	watchCmd.Flags().Int("debounce", 500, "debounce time in milliseconds")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(chunkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(configCmd)
}

func setupLogging() {
	setupLoggingWith(logLevel, logFormat)
}

func setupLoggingWith(level, format string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: lvl}

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// loadConfig loads the project config and re-applies logging settings
// from it unless the flags overrode them.
func loadConfig(root string) (*config.Config, error) {
	cfg, warnings, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	level, format := cfg.Logging.Level, cfg.Logging.Format
	if logLevel != "" {
		level = logLevel
	}
	if logFormat != "" {
		format = logFormat
	}
	setupLoggingWith(level, format)

	return cfg, nil
}

// buildEngine creates the chunking engine from config.
func buildEngine(cfg *config.Config) (*chunker.Engine, error) {
	var opts []chunker.Option
	if cfg.Cache.Enabled {
		opts = append(opts, chunker.WithCache(cfg.Cache.Capacity))
	}
	if cfg.Tokens.Exact {
		counter, err := tokens.NewTikToken(cfg.Tokens.Encoding)
		if err != nil {
			slog.Warn("tiktoken unavailable, falling back to heuristic counting", "error", err)
		} else {
			opts = append(opts, chunker.WithTokenCounter(counter))
		}
	}
	return chunker.New(cfg.Engine(), opts...)
}

// resolveRoot turns the path argument into a scan root. A file argument
// becomes its parent directory with an include pattern matching only
// that file.
func resolveRoot(path string, cfg *config.Config) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return absPath, nil
	}
	cfg.Scan.Include = []string{filepath.Base(absPath)}
	cfg.Scan.UseGitIgnore = false
	return filepath.Dir(absPath), nil
}

func runChunk(path, strategy string, maxSize, minSize, overlap int, output, format string, workers int) {
	cfg, err := loadConfig(cwdOf(path))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Flags override config.
	if strategy != "" {
		cfg.Chunking.Strategy = strategy
	}
	if maxSize > 0 {
		cfg.Chunking.MaxChunkSize = maxSize
	}
	if minSize > 0 {
		cfg.Chunking.MinChunkSize = minSize
	}
	if overlap >= 0 {
		cfg.Chunking.OverlapSize = overlap
	}
	if output != "" {
		cfg.Output.Path = output
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if workers > 0 {
		cfg.Limits.Workers = workers
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "Error: %v\n", e)
		}
		os.Exit(1)
	}

	root, err := resolveRoot(path, cfg)
	if err != nil {
		slog.Error("invalid path", "error", err)
		os.Exit(1)
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		slog.Error("failed to create engine", "error", err)
		os.Exit(1)
	}

	showProgress := cfg.Output.Path != "-" && cfg.Output.Path != ""
	runner := batch.New(batch.Config{
		Root:   root,
		Config: cfg,
		Engine: engine,
		Parser: treesitter.NewParser(),
		OnProgress: func(p types.ChunkProgress) {
			if showProgress && p.Phase != "" {
				fmt.Fprintf(os.Stderr, "\r[%s] Files: %d/%d, Chunks: %d",
					p.Phase, p.ProcessedFiles, p.TotalFiles, p.TotalChunks)
			}
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Limits.Timeout)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		sig := <-sigChan
		slog.Info("received interrupt signal, stopping", "signal", sig)
		cancel()
	}()

	chunks, err := runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			slog.Info("chunking stopped")
		} else {
			slog.Error("chunking failed", "error", err)
		}
		os.Exit(1)
	}
	if showProgress {
		fmt.Fprintln(os.Stderr)
	}

	writer, err := batch.NewWriter(cfg.Output)
	if err != nil {
		slog.Error("failed to open output", "error", err)
		os.Exit(1)
	}
	if err := writer.Write(chunks); err != nil {
		writer.Close()
		slog.Error("failed to write output", "error", err)
		os.Exit(1)
	}
	if err := writer.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
}

func runWatch(path string, debounceMs int) {
	cfg, err := loadConfig(cwdOf(path))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	root, err := resolveRoot(path, cfg)
	if err != nil {
		slog.Error("invalid path", "error", err)
		os.Exit(1)
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		slog.Error("failed to create engine", "error", err)
		os.Exit(1)
	}

	writer, err := batch.NewWriter(cfg.Output)
	if err != nil {
		slog.Error("failed to open output", "error", err)
		os.Exit(1)
	}
	defer writer.Close()

	runner := batch.New(batch.Config{
		Root:   root,
		Config: cfg,
		Engine: engine,
		Parser: treesitter.NewParser(),
	})

	watcher, err := batch.NewWatcher(batch.WatcherConfig{
		Runner:       runner,
		DebounceTime: time.Duration(debounceMs) * time.Millisecond,
		OnChunks: func(path string, chunks []*types.Chunk) {
			if len(chunks) == 0 {
				return
			}
			if err := writer.Write(chunks); err != nil {
				slog.Error("failed to write chunks", "file", path, "error", err)
			}
		},
	})
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	slog.Info("watching for changes (press Ctrl+C to stop)", "path", root)
	if err := watcher.Watch(ctx); err != nil && ctx.Err() == nil {
		slog.Error("watch failed", "error", err)
		os.Exit(1)
	}
}

func runConfigInit() {
	cwd, _ := os.Getwd()
	cfg := config.DefaultConfig()

	if err := config.Save(cwd, cfg); err != nil {
		slog.Error("failed to save config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Created config at %s\n", config.ConfigPath(cwd))
}

func runConfigValidate() {
	cwd, _ := os.Getwd()

	cfg, warnings, err := config.Load(cwd)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w)
	}

	errs := config.Validate(cfg)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("Error: %v\n", e)
		}
		os.Exit(1)
	}

	fmt.Println("Configuration is valid")
}

// cwdOf returns the directory to load config from: the path itself when
// it is a directory, its parent when it is a file, the cwd otherwise.
func cwdOf(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		cwd, _ := os.Getwd()
		return cwd
	}
	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		return filepath.Dir(absPath)
	}
	return absPath
}
