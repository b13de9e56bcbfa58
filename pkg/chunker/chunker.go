// Package chunker implements the chunk-boundary engine: it takes a
// parsed syntax tree plus raw source text and produces a bounded,
// ordered sequence of chunks suitable for embedding and retrieval.
//
// The engine is a pure pipeline: extract elements, run the selected
// boundary strategy, normalize sizes, attach metadata. Invocations
// share no mutable state, so callers may chunk independent files
// concurrently without coordination.
package chunker

import (
	"fmt"
	"sort"

	"github.com/spetr/code-chunker/pkg/syntax"
	"github.com/spetr/code-chunker/pkg/tokens"
	"github.com/spetr/code-chunker/pkg/types"
)

// SourceUnit is the immutable input of one chunking invocation: the
// source file, its parsed tree and the language that produced it. The
// engine borrows it read-only.
type SourceUnit struct {
	File     *types.SourceFile
	Tree     syntax.Tree
	Language syntax.Language
}

// Engine chunks source units. Create one with New; a single Engine is
// safe for concurrent use.
type Engine struct {
	cfg     Config
	counter tokens.Counter
	cache   *resultCache
}

// Option configures an Engine.
type Option func(*Engine)

// WithTokenCounter replaces the default heuristic token counter.
func WithTokenCounter(c tokens.Counter) Option {
	return func(e *Engine) { e.counter = c }
}

// WithCache enables a process-wide result cache of the given capacity,
// keyed by a content digest of (source, path, config).
func WithCache(capacity int) Option {
	return func(e *Engine) { e.cache = newResultCache(capacity) }
}

// New creates an engine for the given configuration. The configuration
// is validated up front; no partial output is ever produced from an
// invalid one.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, counter: tokens.Heuristic{}}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Chunk runs the full pipeline on one source unit and returns the
// final chunk sequence. The same unit and configuration always yield
// byte-identical chunks and identifiers.
func (e *Engine) Chunk(unit *SourceUnit) ([]*types.Chunk, error) {
	src := unit.File.Content
	if len(src) == 0 {
		return nil, nil
	}

	var key string
	if e.cache != nil {
		key = e.cache.key(unit.File, e.cfg)
		if chunks, ok := e.cache.get(key); ok {
			return chunks, nil
		}
	}

	els, err := extractElements(unit.Tree, src, unit.Language, unit.File.Path)
	if err != nil {
		return nil, err
	}

	li := newLineIndex(src)

	candidates, err := e.runStrategy(e.cfg.Strategy, els, src, li)
	if err != nil {
		return nil, err
	}

	final, err := e.normalize(candidates, src, li)
	if err != nil {
		return nil, err
	}

	e.attachMetadata(final, els, src, li, unit.File, unit.Language.Comments())

	if err := verifyCoverage(final, uint32(len(src))); err != nil {
		return nil, fmt.Errorf("%w: %s", err, unit.File.Path)
	}

	if e.cache != nil {
		e.cache.put(key, final)
	}
	return final, nil
}

// ChunkText chunks raw text with the sliding window strategy, without
// a syntax tree. This is the degraded mode for files that fail to
// parse: it guarantees total coverage regardless of tree quality.
func (e *Engine) ChunkText(file *types.SourceFile) ([]*types.Chunk, error) {
	src := file.Content
	if len(src) == 0 {
		return nil, nil
	}
	li := newLineIndex(src)
	candidates := e.windowRange(src, li, 0, uint32(len(src)), types.StrategyWindow)
	final, err := e.normalize(candidates, src, li)
	if err != nil {
		return nil, err
	}
	e.attachMetadata(final, nil, src, li, file, types.CommentStyle{})
	if err := verifyCoverage(final, uint32(len(src))); err != nil {
		return nil, fmt.Errorf("%w: %s", err, file.Path)
	}
	return final, nil
}

// runStrategy dispatches to the selected boundary strategy. Strategies
// are a closed set; new ones are added here, not registered.
func (e *Engine) runStrategy(s types.Strategy, els []types.Element, src []byte, li *lineIndex) ([]*types.Chunk, error) {
	switch s {
	case types.StrategyFunction:
		return e.chunkByFunctions(els, src, li), nil
	case types.StrategyClass:
		return e.chunkByClasses(els, src, li), nil
	case types.StrategySemantic:
		return e.chunkSemanticBlocks(els, src, li), nil
	case types.StrategyWindow:
		return e.windowRange(src, li, 0, uint32(len(src)), types.StrategyWindow), nil
	case types.StrategyHybrid:
		return e.chunkHybrid(els, src, li), nil
	}
	return nil, fmt.Errorf("%w: unknown strategy %q", types.ErrInvalidConfig, s)
}

// sortChunks orders candidates by start byte, longer spans first on ties.
func sortChunks(chunks []*types.Chunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].StartByte != chunks[j].StartByte {
			return chunks[i].StartByte < chunks[j].StartByte
		}
		return chunks[i].EndByte > chunks[j].EndByte
	})
}

// verifyCoverage checks that the union of chunk spans covers every
// byte of the input. Overlap is allowed, omission is not.
func verifyCoverage(chunks []*types.Chunk, size uint32) error {
	var covered uint32
	for _, c := range chunks {
		if c.StartByte > covered {
			return types.ErrCoverage
		}
		if c.EndByte > covered {
			covered = c.EndByte
		}
	}
	if covered < size {
		return types.ErrCoverage
	}
	return nil
}
