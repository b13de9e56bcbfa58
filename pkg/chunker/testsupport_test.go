package chunker

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spetr/code-chunker/pkg/syntax"
	"github.com/spetr/code-chunker/pkg/types"
)

// fakeNode is a minimal syntax.Node used to drive the engine without a
// real grammar.
type fakeNode struct {
	kind     string
	name     string
	start    uint32
	end      uint32
	children []*fakeNode
	parent   *fakeNode
	src      []byte
}

func (n *fakeNode) Kind() string      { return n.kind }
func (n *fakeNode) StartByte() uint32 { return n.start }
func (n *fakeNode) EndByte() uint32   { return n.end }
func (n *fakeNode) StartRow() int     { return bytes.Count(n.src[:n.start], []byte("\n")) }
func (n *fakeNode) EndRow() int       { return bytes.Count(n.src[:n.end], []byte("\n")) }
func (n *fakeNode) ChildCount() int   { return len(n.children) }

func (n *fakeNode) Child(i int) syntax.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *fakeNode) Parent() syntax.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

type fakeTree struct {
	root *fakeNode
}

func (t *fakeTree) Root() syntax.Node { return t.root }
func (t *fakeTree) Close()            {}

// fakeLang classifies nodes by their fake kind names: "func" and
// "class" are elements, everything else is left to the extractor's
// block fallback. Comment syntax is Python-like so docstring handling
// is exercised.
type fakeLang struct{}

func (fakeLang) Name() string { return "fake" }

func (fakeLang) Classify(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	fn, ok := n.(*fakeNode)
	if !ok {
		return "", "", false
	}
	switch fn.kind {
	case "func":
		return types.ElementFunction, fn.name, true
	case "class":
		return types.ElementClass, fn.name, true
	}
	return "", "", false
}

func (fakeLang) Comments() types.CommentStyle {
	return types.CommentStyle{LinePrefix: "#", BlockStart: `"""`, BlockEnd: `"""`}
}

// node builds a fake node over the byte span [start,end).
func node(kind, name string, start, end int, kids ...*fakeNode) *fakeNode {
	return &fakeNode{kind: kind, name: name, start: uint32(start), end: uint32(end), children: kids}
}

// stmt builds an unclassifiable statement node.
func stmt(start, end int) *fakeNode {
	return node("stmt", "", start, end)
}

// newUnit assembles a source unit from fake top-level nodes.
func newUnit(t *testing.T, src string, kids ...*fakeNode) *SourceUnit {
	t.Helper()
	root := &fakeNode{kind: "module", start: 0, end: uint32(len(src)), children: kids}
	link(root, []byte(src))
	file := &types.SourceFile{Path: "test.py", Content: []byte(src), Language: "python"}
	file.Hash = file.ComputeHash()
	return &SourceUnit{File: file, Tree: &fakeTree{root: root}, Language: fakeLang{}}
}

func link(n *fakeNode, src []byte) {
	n.src = src
	for _, c := range n.children {
		c.parent = n
		link(c, src)
	}
}

// span locates a substring and returns its byte span.
func span(t *testing.T, src, substr string) (int, int) {
	t.Helper()
	i := strings.Index(src, substr)
	if i < 0 {
		t.Fatalf("substring not found: %q", substr)
	}
	return i, i + len(substr)
}

// mustEngine builds an engine or fails the test.
func mustEngine(t *testing.T, cfg Config, opts ...Option) *Engine {
	t.Helper()
	e, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

// mustChunk runs the engine or fails the test.
func mustChunk(t *testing.T, e *Engine, unit *SourceUnit) []*types.Chunk {
	t.Helper()
	chunks, err := e.Chunk(unit)
	if err != nil {
		t.Fatalf("Chunk() error: %v", err)
	}
	return chunks
}
