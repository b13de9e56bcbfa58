// Package config handles configuration loading and validation.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/spetr/code-chunker/pkg/chunker"
	"github.com/spetr/code-chunker/pkg/types"
)

// Config represents the complete configuration.
type Config struct {
	Chunking ChunkingConfig `mapstructure:"chunking" yaml:"chunking"`
	Scan     ScanConfig     `mapstructure:"scan" yaml:"scan"`
	Tokens   TokensConfig   `mapstructure:"tokens" yaml:"tokens"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Limits   LimitsConfig   `mapstructure:"limits" yaml:"limits"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ChunkingConfig contains chunk-boundary options.
type ChunkingConfig struct {
	Strategy           string `mapstructure:"strategy" yaml:"strategy"`                         // function, class, semantic, window, hybrid
	MaxChunkSize       int    `mapstructure:"max_chunk_size" yaml:"max_chunk_size"`             // max chars per chunk
	MinChunkSize       int    `mapstructure:"min_chunk_size" yaml:"min_chunk_size"`             // min chars per chunk
	OverlapSize        int    `mapstructure:"overlap_size" yaml:"overlap_size"`                 // window overlap in chars
	ContextLines       int    `mapstructure:"context_lines" yaml:"context_lines"`               // preceding context lines
	MergeSmallChunks   bool   `mapstructure:"merge_small_chunks" yaml:"merge_small_chunks"`     // merge undersized neighbors
	BlankLineThreshold int    `mapstructure:"blank_line_threshold" yaml:"blank_line_threshold"` // blank lines splitting blocks
	LineLookback       int    `mapstructure:"line_lookback" yaml:"line_lookback"`               // window line-boundary search distance
}

// ScanConfig controls which files a batch run picks up.
type ScanConfig struct {
	Include      []string `mapstructure:"include" yaml:"include"` // glob patterns to include
	Exclude      []string `mapstructure:"exclude" yaml:"exclude"` // glob patterns to exclude
	UseGitIgnore bool     `mapstructure:"use_gitignore" yaml:"use_gitignore"`
}

// TokensConfig contains token counting configuration.
type TokensConfig struct {
	Exact    bool   `mapstructure:"exact" yaml:"exact"`       // tiktoken instead of the chars/4 heuristic
	Encoding string `mapstructure:"encoding" yaml:"encoding"` // tiktoken encoding name
}

// CacheConfig controls the per-file result cache.
type CacheConfig struct {
	Enabled  bool `mapstructure:"enabled" yaml:"enabled"`
	Capacity int  `mapstructure:"capacity" yaml:"capacity"` // files
}

// OutputConfig controls where batch results go.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // jsonl, json
	Path   string `mapstructure:"path" yaml:"path"`     // "-" for stdout
}

// LimitsConfig contains resource limits.
type LimitsConfig struct {
	MaxFileSize int64         `mapstructure:"max_file_size" yaml:"max_file_size"` // bytes
	MaxFiles    int           `mapstructure:"max_files" yaml:"max_files"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Workers     int           `mapstructure:"workers" yaml:"workers"` // 0 = runtime.NumCPU()
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Strategy:           string(types.StrategyHybrid),
			MaxChunkSize:       chunker.DefaultMaxChunkSize,
			MinChunkSize:       chunker.DefaultMinChunkSize,
			OverlapSize:        chunker.DefaultOverlapSize,
			ContextLines:       chunker.DefaultContextLines,
			MergeSmallChunks:   true,
			BlankLineThreshold: chunker.DefaultBlankLineThreshold,
		},
		Scan: ScanConfig{
			Include: []string{
				"**/*.go", "**/*.py", "**/*.js", "**/*.mjs", "**/*.cjs",
				"**/*.jsx", "**/*.ts", "**/*.tsx", "**/*.rs", "**/*.java",
				"**/*.c", "**/*.cpp", "**/*.cc", "**/*.cxx", "**/*.h", "**/*.hpp",
				"**/*.rb", "**/*.php", "**/*.cs", "**/*.kt", "**/*.kts",
				"**/*.lua", "**/*.sql", "**/*.proto",
				"**/*.sh", "**/*.bash",
				"**/*.html", "**/*.htm", "**/*.css",
				"**/*.yaml", "**/*.yml", "**/*.toml",
				"**/*.tf", "**/*.hcl",
			},
			Exclude: []string{
				"**/vendor/**", "**/node_modules/**", "**/.git/**",
				"**/dist/**", "**/build/**", "**/target/**", "**/bin/**", "**/obj/**",
				"**/*.min.js", "**/*.min.css", "**/*.generated.*",
				"**/package-lock.json", "**/yarn.lock", "**/pnpm-lock.yaml",
				"**/go.sum", "**/Cargo.lock", "**/composer.lock",
			},
			UseGitIgnore: true,
		},
		Tokens: TokensConfig{
			Exact:    false,
			Encoding: "cl100k_base",
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 256,
		},
		Output: OutputConfig{
			Format: "jsonl",
			Path:   "-",
		},
		Limits: LimitsConfig{
			MaxFileSize: 1 << 20, // 1MB
			MaxFiles:    50000,
			Timeout:     30 * time.Minute,
			Workers:     0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ConfigDir returns the path to the .code-chunker directory.
func ConfigDir(projectRoot string) string {
	return filepath.Join(projectRoot, ".code-chunker")
}

// ConfigPath returns the path to config.yaml.
func ConfigPath(projectRoot string) string {
	return filepath.Join(ConfigDir(projectRoot), "config.yaml")
}

// Load loads configuration from file, falling back to defaults.
func Load(projectRoot string) (*Config, []string, error) {
	cfg := DefaultConfig()
	warnings := []string{}

	configPath := ConfigPath(projectRoot)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		warnings = append(warnings, "No config file found, using defaults")
		return cfg, warnings, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply defaults for missing values
	if cfg.Chunking.Strategy == "" {
		cfg.Chunking.Strategy = string(types.StrategyHybrid)
		warnings = append(warnings, "Using default strategy: hybrid")
	}
	if cfg.Chunking.MaxChunkSize == 0 {
		cfg.Chunking.MaxChunkSize = chunker.DefaultMaxChunkSize
	}
	if cfg.Tokens.Encoding == "" {
		cfg.Tokens.Encoding = "cl100k_base"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "jsonl"
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "-"
	}
	if cfg.Cache.Enabled && cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 256
	}

	return cfg, warnings, nil
}

// Save saves configuration to file.
func Save(projectRoot string, cfg *Config) error {
	configDir := ConfigDir(projectRoot)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(ConfigPath(projectRoot))
	v.SetConfigType("yaml")

	v.Set("chunking", cfg.Chunking)
	v.Set("scan", cfg.Scan)
	v.Set("tokens", cfg.Tokens)
	v.Set("cache", cfg.Cache)
	v.Set("output", cfg.Output)
	v.Set("limits", cfg.Limits)
	v.Set("logging", cfg.Logging)

	return v.WriteConfig()
}

// Validate validates the configuration.
func Validate(cfg *Config) []error {
	var errs []error

	// The engine validates size relations, strategy and overlap.
	if err := cfg.Engine().Validate(); err != nil {
		errs = append(errs, err)
	}

	validFormats := map[string]bool{"jsonl": true, "json": true}
	if !validFormats[cfg.Output.Format] {
		errs = append(errs, fmt.Errorf("invalid output format: %s (valid: jsonl, json)", cfg.Output.Format))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Errorf("invalid log level: %s", cfg.Logging.Level))
	}

	if cfg.Limits.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("max_file_size must not be negative"))
	}
	if cfg.Limits.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative"))
	}

	return errs
}

// Engine converts the chunking section into an engine configuration.
func (c *Config) Engine() chunker.Config {
	return chunker.Config{
		Strategy:           types.Strategy(c.Chunking.Strategy),
		MaxChunkSize:       c.Chunking.MaxChunkSize,
		MinChunkSize:       c.Chunking.MinChunkSize,
		OverlapSize:        c.Chunking.OverlapSize,
		ContextLines:       c.Chunking.ContextLines,
		MergeSmallChunks:   c.Chunking.MergeSmallChunks,
		BlankLineThreshold: c.Chunking.BlankLineThreshold,
		LineLookback:       c.Chunking.LineLookback,
	}
}

// Hash returns a hash of the configuration that affects chunk output.
// Used for detecting when produced chunks are stale.
func (c *Config) Hash() string {
	data := fmt.Sprintf("%s:%d:%d:%d:%d:%t:%d:%d:%t:%s",
		c.Chunking.Strategy,
		c.Chunking.MaxChunkSize,
		c.Chunking.MinChunkSize,
		c.Chunking.OverlapSize,
		c.Chunking.ContextLines,
		c.Chunking.MergeSmallChunks,
		c.Chunking.BlankLineThreshold,
		c.Chunking.LineLookback,
		c.Tokens.Exact,
		c.Tokens.Encoding,
	)
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])
}

// Copy creates a deep copy of the config.
func (c *Config) Copy() *Config {
	copy := *c

	if c.Scan.Include != nil {
		copy.Scan.Include = make([]string, len(c.Scan.Include))
		for i, v := range c.Scan.Include {
			copy.Scan.Include[i] = v
		}
	}
	if c.Scan.Exclude != nil {
		copy.Scan.Exclude = make([]string, len(c.Scan.Exclude))
		for i, v := range c.Scan.Exclude {
			copy.Scan.Exclude[i] = v
		}
	}

	return &copy
}
