package chunker

import (
	"github.com/spetr/code-chunker/pkg/syntax"
	"github.com/spetr/code-chunker/pkg/types"
)

// extractElements walks a syntax tree and returns the ordered, flat
// element list the strategies consume. Subtrees that cannot be
// classified become generic Block elements so no source text is lost.
// A span outside the buffer, or a child escaping its parent's span,
// makes the tree malformed and fails the whole file.
func extractElements(tree syntax.Tree, src []byte, lang syntax.Language, path string) ([]types.Element, error) {
	root := tree.Root()
	if root == nil {
		return nil, &types.MalformedTreeError{Path: path, Detail: "tree has no root node"}
	}
	if root.EndByte() > uint32(len(src)) {
		return nil, &types.MalformedTreeError{Path: path, Detail: "root span exceeds buffer length"}
	}

	var els []types.Element

	var walk func(n syntax.Node, parent, depth int) error
	walk = func(n syntax.Node, parent, depth int) error {
		for i := 0; i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			if child.StartByte() > child.EndByte() || child.EndByte() > uint32(len(src)) {
				return &types.MalformedTreeError{Path: path, Detail: "node span outside buffer bounds"}
			}
			if parent >= 0 {
				p := &els[parent]
				if child.StartByte() < p.StartByte || child.EndByte() > p.EndByte {
					return &types.MalformedTreeError{Path: path, Detail: "child span escapes parent span"}
				}
			}
			if child.StartByte() == child.EndByte() {
				continue
			}

			kind, name, ok := lang.Classify(child, src)
			if ok {
				// A function directly inside a class is a method.
				if kind == types.ElementFunction && parent >= 0 && els[parent].Kind == types.ElementClass {
					kind = types.ElementMethod
				}
				idx := len(els)
				els = append(els, types.Element{
					Kind:      kind,
					Name:      name,
					StartByte: child.StartByte(),
					EndByte:   child.EndByte(),
					StartLine: child.StartRow() + 1,
					EndLine:   child.EndRow() + 1,
					Depth:     depth,
					Parent:    parent,
				})
				if err := walk(child, idx, depth+1); err != nil {
					return err
				}
				continue
			}

			if subtreeHasElement(child, src, lang) {
				// Wrapper node (decorated definition, export statement):
				// recurse so the inner element surfaces at this depth.
				if err := walk(child, parent, depth); err != nil {
					return err
				}
				continue
			}

			if parent == -1 && !isWhitespace(src[child.StartByte():child.EndByte()]) {
				// Unclassifiable top-level statement: keep it as a block
				// so strategies never silently lose text.
				els = append(els, types.Element{
					Kind:      types.ElementBlock,
					StartByte: child.StartByte(),
					EndByte:   child.EndByte(),
					StartLine: child.StartRow() + 1,
					EndLine:   child.EndRow() + 1,
					Depth:     depth,
					Parent:    -1,
				})
			}
		}
		return nil
	}

	if err := walk(root, -1, 0); err != nil {
		return nil, err
	}
	return els, nil
}

// subtreeHasElement reports whether any descendant of n classifies as
// an element.
func subtreeHasElement(n syntax.Node, src []byte, lang syntax.Language) bool {
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if _, _, ok := lang.Classify(child, src); ok {
			return true
		}
		if subtreeHasElement(child, src, lang) {
			return true
		}
	}
	return false
}

// enclosedByKind reports whether the element at idx has an ancestor of
// the given kind.
func enclosedByKind(els []types.Element, idx int, kinds ...types.ElementKind) bool {
	for p := els[idx].Parent; p >= 0; p = els[p].Parent {
		for _, k := range kinds {
			if els[p].Kind == k {
				return true
			}
		}
	}
	return false
}

// childElements returns the indices of elements whose direct parent is
// idx, in source order.
func childElements(els []types.Element, idx int) []int {
	var out []int
	for i := range els {
		if els[i].Parent == idx {
			out = append(out, i)
		}
	}
	return out
}
