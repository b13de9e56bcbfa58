// Package types contains shared data types used across the code-chunker project.
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SourceFile represents a source code file to be chunked.
type SourceFile struct {
	Path     string // Path to the file, used for chunk identifiers
	Content  []byte // Raw UTF-8 file content
	Language string // Detected language (go, python, javascript, etc.)
	Hash     string // SHA256 hash of the content
}

// ComputeHash calculates SHA256 hash of the file content.
func (f *SourceFile) ComputeHash() string {
	h := sha256.Sum256(f.Content)
	return hex.EncodeToString(h[:])
}

// ElementKind classifies a syntactic element.
type ElementKind string

const (
	ElementFunction ElementKind = "function"
	ElementMethod   ElementKind = "method"
	ElementClass    ElementKind = "class"
	ElementModule   ElementKind = "module"
	ElementBlock    ElementKind = "block"
)

// Element is a named or anonymous syntactic unit extracted from a parse
// tree. Elements are ordered by start byte. Sibling spans never overlap
// and a child's span is always contained in its parent's span.
type Element struct {
	Kind      ElementKind
	Name      string // Empty for anonymous blocks
	StartByte uint32 // Inclusive
	EndByte   uint32 // Exclusive
	StartLine int    // 1-based, inclusive
	EndLine   int    // 1-based, inclusive
	Depth     int    // Nesting depth among extracted elements (0 = top level)
	Parent    int    // Index of the enclosing element, -1 if none
}

// Len returns the element's span length in bytes.
func (e *Element) Len() int {
	return int(e.EndByte - e.StartByte)
}

// Contains reports whether other's span lies within e's span.
func (e *Element) Contains(other *Element) bool {
	return e.StartByte <= other.StartByte && other.EndByte <= e.EndByte
}

// Strategy selects the boundary algorithm used to produce chunks.
type Strategy string

const (
	StrategyFunction Strategy = "function"
	StrategyClass    Strategy = "class"
	StrategySemantic Strategy = "semantic"
	StrategyWindow   Strategy = "window"
	StrategyHybrid   Strategy = "hybrid"
)

// Strategies lists all supported strategies.
func Strategies() []Strategy {
	return []Strategy{
		StrategyFunction,
		StrategyClass,
		StrategySemantic,
		StrategyWindow,
		StrategyHybrid,
	}
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyFunction, StrategyClass, StrategySemantic, StrategyWindow, StrategyHybrid:
		return true
	}
	return false
}

// CommentStyle describes a language's documentation comment syntax.
// The engine itself is language-agnostic; the parsing layer supplies
// this alongside the tree.
type CommentStyle struct {
	LinePrefix string // e.g. "//" or "#"
	BlockStart string // e.g. "/*" or `"""`
	BlockEnd   string // e.g. "*/" or `"""`
}

// Chunk represents a bounded fragment of source text with structural
// metadata, both in candidate form (between strategy and normalizer)
// and final form (handed to the embedding subsystem).
type Chunk struct {
	ID       string      `json:"id"`        // Deterministic: {path}:{startline}:{hash8}
	FilePath string      `json:"file_path"` // Path of the source file
	Language string      `json:"language"`  // Programming language
	Content  string      `json:"content"`   // Exact substring of the source by byte span
	Kind     ElementKind `json:"kind"`      // Kind of the primary covered element
	Name     string      `json:"name,omitempty"` // Name of the primary covered element, if any
	Strategy Strategy    `json:"strategy"`  // Strategy that produced the boundary

	StartByte uint32 `json:"start_byte"` // Inclusive
	EndByte   uint32 `json:"end_byte"`   // Exclusive
	StartLine int    `json:"start_line"` // 1-based, inclusive
	EndLine   int    `json:"end_line"`   // 1-based, inclusive

	ElementRefs []int  `json:"element_refs,omitempty"` // Indices of covered elements, in source order
	Docstring   string `json:"docstring,omitempty"`    // Leading documentation comment, if any

	IsMerged       bool `json:"is_merged,omitempty"`       // Built by merging adjacent undersized chunks
	HasOverlap     bool `json:"has_overlap,omitempty"`     // Deliberately duplicates bytes of a neighbor
	Unsplittable   bool `json:"unsplittable,omitempty"`    // Single syntactic unit that must not be cut
	TruncationRisk bool `json:"truncation_risk,omitempty"` // Unsplittable unit exceeding the size ceiling

	SizeChars  int    `json:"size_chars"`  // len(Content)
	SizeTokens int    `json:"size_tokens"` // Approximate token count
	Hash       string `json:"hash"`        // SHA256 of Content
}

// GenerateID derives the deterministic chunk identifier from the file
// path, byte span and strategy. Chunking the same input twice yields
// the same IDs.
func (c *Chunk) GenerateID() string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s\x00%d\x00%d\x00%s", c.FilePath, c.StartByte, c.EndByte, c.Strategy))
	return fmt.Sprintf("%s:%d:%s", c.FilePath, c.StartLine, hex.EncodeToString(h[:4]))
}

// ComputeHash calculates SHA256 of the chunk content.
func (c *Chunk) ComputeHash() string {
	h := sha256.Sum256([]byte(c.Content))
	return hex.EncodeToString(h[:])
}

// ChunkProgress represents the current state of a batch chunking run.
type ChunkProgress struct {
	Phase          string // "scanning", "chunking", "writing"
	TotalFiles     int
	ProcessedFiles int
	TotalChunks    int
	CurrentFile    string
	Err            error // Non-fatal error (e.g. cannot parse file)
}
