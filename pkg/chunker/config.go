package chunker

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/spetr/code-chunker/pkg/types"
)

// Default values
const (
	DefaultMaxChunkSize       = 1000 // chars
	DefaultMinChunkSize       = 100  // chars
	DefaultOverlapSize        = 100  // chars
	DefaultContextLines       = 3    // lines of preceding context
	DefaultBlankLineThreshold = 2    // blank lines that split semantic blocks
)

// Config controls how a single chunking invocation behaves. It is
// supplied per call; the engine holds no mutable state derived from it.
type Config struct {
	// Strategy selects the boundary algorithm.
	Strategy types.Strategy `validate:"required"`

	// MaxChunkSize is the size ceiling in characters.
	MaxChunkSize int `validate:"gt=0"`

	// MinChunkSize is the size floor in characters. Chunks below it are
	// merged with neighbors when MergeSmallChunks is set.
	MinChunkSize int `validate:"gte=0"`

	// OverlapSize is the number of characters the sliding window
	// repeats at the start of each subsequent chunk.
	OverlapSize int `validate:"gte=0"`

	// ContextLines is how many lines of immediately preceding text the
	// function strategy prepends to each chunk.
	ContextLines int `validate:"gte=0"`

	// MergeSmallChunks enables merging of adjacent undersized chunks.
	MergeSmallChunks bool

	// BlankLineThreshold is the blank-line run length that separates
	// semantic blocks. Zero selects the default.
	BlankLineThreshold int `validate:"gte=0"`

	// LineLookback is how far the sliding window searches backwards for
	// a line boundary before falling back to a hard cut. Zero selects
	// half of MaxChunkSize.
	LineLookback int `validate:"gte=0"`
}

// DefaultConfig returns the default chunking configuration.
func DefaultConfig() Config {
	return Config{
		Strategy:           types.StrategyHybrid,
		MaxChunkSize:       DefaultMaxChunkSize,
		MinChunkSize:       DefaultMinChunkSize,
		OverlapSize:        DefaultOverlapSize,
		ContextLines:       DefaultContextLines,
		MergeSmallChunks:   true,
		BlankLineThreshold: DefaultBlankLineThreshold,
	}
}

var validate = validator.New()

// Validate rejects invalid configurations before any processing
// happens. All returned errors wrap types.ErrInvalidConfig.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidConfig, err)
	}
	if !c.Strategy.Valid() {
		return fmt.Errorf("%w: unknown strategy %q", types.ErrInvalidConfig, c.Strategy)
	}
	if c.MinChunkSize > c.MaxChunkSize {
		return fmt.Errorf("%w: min_chunk_size %d exceeds max_chunk_size %d",
			types.ErrInvalidConfig, c.MinChunkSize, c.MaxChunkSize)
	}
	if c.OverlapSize >= c.MaxChunkSize {
		return fmt.Errorf("%w: overlap_size %d must be smaller than max_chunk_size %d",
			types.ErrInvalidConfig, c.OverlapSize, c.MaxChunkSize)
	}
	return nil
}

// blankLineThreshold returns the effective blank-line threshold.
func (c Config) blankLineThreshold() int {
	if c.BlankLineThreshold > 0 {
		return c.BlankLineThreshold
	}
	return DefaultBlankLineThreshold
}

// lineLookback returns the effective line-boundary lookback distance.
func (c Config) lineLookback() int {
	if c.LineLookback > 0 {
		return c.LineLookback
	}
	return c.MaxChunkSize / 2
}

// fingerprint returns a canonical string of all options, used as part
// of cache keys.
func (c Config) fingerprint() string {
	return fmt.Sprintf("%s|%d|%d|%d|%d|%t|%d|%d",
		c.Strategy, c.MaxChunkSize, c.MinChunkSize, c.OverlapSize,
		c.ContextLines, c.MergeSmallChunks, c.blankLineThreshold(), c.lineLookback())
}
