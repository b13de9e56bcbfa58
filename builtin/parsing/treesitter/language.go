package treesitter

import (
	"github.com/spetr/code-chunker/pkg/syntax"
	"github.com/spetr/code-chunker/pkg/types"
)

// classifyFunc maps a grammar node to an element kind and name.
type classifyFunc func(n syntax.Node, src []byte) (types.ElementKind, string, bool)

// language bundles a language tag with its node classifier and comment
// syntax. Languages without a classifier still parse; their trees
// decompose into generic blocks.
type language struct {
	name     string
	classify classifyFunc
	comments types.CommentStyle
}

func (l *language) Name() string { return l.name }

func (l *language) Classify(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	if l.classify == nil {
		return "", "", false
	}
	return l.classify(n, src)
}

func (l *language) Comments() types.CommentStyle { return l.comments }

var (
	cStyleComments = types.CommentStyle{LinePrefix: "//", BlockStart: "/*", BlockEnd: "*/"}
	hashComments   = types.CommentStyle{LinePrefix: "#"}
	pythonComments = types.CommentStyle{LinePrefix: "#", BlockStart: `"""`, BlockEnd: `"""`}
	rubyComments   = types.CommentStyle{LinePrefix: "#", BlockStart: "=begin", BlockEnd: "=end"}
	sqlComments    = types.CommentStyle{LinePrefix: "--", BlockStart: "/*", BlockEnd: "*/"}
	luaComments    = types.CommentStyle{LinePrefix: "--", BlockStart: "--[[", BlockEnd: "]]"}
)

// findChildValue returns the source text of the first direct child of
// the given grammar type.
func findChildValue(n syntax.Node, childType string, src []byte) string {
	if c := findChild(n, childType); c != nil {
		return string(src[c.StartByte():c.EndByte()])
	}
	return ""
}

// findChild returns the first direct child of the given grammar type.
func findChild(n syntax.Node, childType string) syntax.Node {
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == childType {
			return child
		}
	}
	return nil
}
