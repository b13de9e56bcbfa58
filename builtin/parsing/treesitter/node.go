package treesitter

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/spetr/code-chunker/pkg/syntax"
)

// node adapts a tree-sitter node to the engine's syntax.Node.
type node struct {
	n *sitter.Node
}

func wrap(n *sitter.Node) syntax.Node {
	if n == nil {
		return nil
	}
	return &node{n: n}
}

func (a *node) Kind() string      { return a.n.Type() }
func (a *node) StartByte() uint32 { return a.n.StartByte() }
func (a *node) EndByte() uint32   { return a.n.EndByte() }
func (a *node) StartRow() int     { return int(a.n.StartPoint().Row) }
func (a *node) EndRow() int       { return int(a.n.EndPoint().Row) }
func (a *node) ChildCount() int   { return int(a.n.ChildCount()) }

func (a *node) Child(i int) syntax.Node {
	if i < 0 || i >= int(a.n.ChildCount()) {
		return nil
	}
	return wrap(a.n.Child(i))
}

func (a *node) Parent() syntax.Node {
	return wrap(a.n.Parent())
}

// tree adapts a tree-sitter tree and owns its lifetime.
type tree struct {
	t *sitter.Tree
}

func (t *tree) Root() syntax.Node {
	if t.t == nil {
		return nil
	}
	return wrap(t.t.RootNode())
}

func (t *tree) Close() {
	if t.t != nil {
		t.t.Close()
		t.t = nil
	}
}
