// Package syntax defines the generic syntax tree abstraction consumed
// by the chunking engine. The engine is agnostic to which concrete
// grammar produced a tree; parsers implement these interfaces once per
// grammar (see builtin/parsing/treesitter).
package syntax

import "github.com/spetr/code-chunker/pkg/types"

// Node is a single node of a parse tree.
type Node interface {
	// Kind returns the grammar-specific node type (e.g. "function_declaration").
	Kind() string

	// StartByte returns the inclusive start offset of the node's span.
	StartByte() uint32

	// EndByte returns the exclusive end offset of the node's span.
	EndByte() uint32

	// StartRow returns the 0-based line of the span start.
	StartRow() int

	// EndRow returns the 0-based line of the span end.
	EndRow() int

	// ChildCount returns the number of children.
	ChildCount() int

	// Child returns the i-th child, or nil if out of range.
	Child(i int) Node

	// Parent returns the parent node, or nil for the root.
	Parent() Node
}

// Tree is a parsed syntax tree together with its lifecycle.
type Tree interface {
	// Root returns the root node.
	Root() Node

	// Close releases parser-owned resources. Safe to call more than once.
	Close()
}

// Language supplies the language-specific knowledge the engine needs:
// how to classify grammar nodes into elements, and the documentation
// comment syntax. Everything else stays language-agnostic.
type Language interface {
	// Name returns the language tag (e.g. "go", "python").
	Name() string

	// Classify reports whether a node is an extractable element and, if
	// so, its kind and declared name. Name may be empty.
	Classify(n Node, src []byte) (kind types.ElementKind, name string, ok bool)

	// Comments returns the documentation comment syntax.
	Comments() types.CommentStyle
}

// Parser turns source files into trees. Implemented by the parsing
// collaborator, never by the engine.
type Parser interface {
	// Parse parses a source file. The returned tree must be closed by
	// the caller.
	Parse(file *types.SourceFile) (Tree, Language, error)

	// Supports reports whether a language has a grammar available.
	Supports(lang string) bool
}
