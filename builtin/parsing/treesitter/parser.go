// Package treesitter implements the engine's parsing collaborator on
// top of Tree-sitter grammars.
package treesitter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	tsc "github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/hcl"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/protobuf"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/sql"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	tstype "github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/spetr/code-chunker/pkg/syntax"
	"github.com/spetr/code-chunker/pkg/types"
)

// Parser parses source files with Tree-sitter. Stateless; safe for
// concurrent use, each Parse creates its own sitter parser.
type Parser struct{}

// NewParser creates a Tree-sitter backed parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses the file with the grammar for its language. The language
// is taken from the file, falling back to extension detection.
func (p *Parser) Parse(file *types.SourceFile) (syntax.Tree, syntax.Language, error) {
	tag := file.Language
	if tag == "" {
		tag = DetectLanguage(file.Path)
	}
	grammar, lang, ok := grammarFor(tag)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", types.ErrUnsupportedLanguage, tag)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	t, err := parser.ParseCtx(context.Background(), nil, file.Content)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", types.ErrParseError, file.Path, err)
	}
	return &tree{t: t}, lang, nil
}

// Supports reports whether a grammar exists for the language tag.
func (p *Parser) Supports(lang string) bool {
	_, _, ok := grammarFor(lang)
	return ok
}

// Languages returns the tags with a grammar available.
func Languages() []string {
	return []string{
		"go", "python", "javascript", "jsx", "typescript", "tsx",
		"rust", "java", "c", "cpp", "ruby", "php", "csharp", "kotlin",
		"lua", "bash", "sql", "proto", "html", "css", "yaml", "toml",
		"hcl",
	}
}

// grammarFor maps a language tag to its grammar and language bundle.
func grammarFor(tag string) (*sitter.Language, *language, bool) {
	switch tag {
	case "go":
		return golang.GetLanguage(), &language{name: "go", classify: classifyGo, comments: cStyleComments}, true
	case "python":
		return python.GetLanguage(), &language{name: "python", classify: classifyPython, comments: pythonComments}, true
	case "javascript", "jsx":
		return javascript.GetLanguage(), &language{name: tag, classify: classifyJS, comments: cStyleComments}, true
	case "typescript":
		return tstype.GetLanguage(), &language{name: "typescript", classify: classifyJS, comments: cStyleComments}, true
	case "tsx":
		return tsx.GetLanguage(), &language{name: "tsx", classify: classifyJS, comments: cStyleComments}, true
	case "rust":
		return rust.GetLanguage(), &language{name: "rust", classify: classifyRust, comments: cStyleComments}, true
	case "java":
		return java.GetLanguage(), &language{name: "java", classify: classifyJava, comments: cStyleComments}, true
	case "c", "h":
		return tsc.GetLanguage(), &language{name: "c", classify: classifyC, comments: cStyleComments}, true
	case "cpp", "hpp":
		return cpp.GetLanguage(), &language{name: "cpp", classify: classifyC, comments: cStyleComments}, true
	case "ruby":
		return ruby.GetLanguage(), &language{name: "ruby", classify: classifyRuby, comments: rubyComments}, true
	case "php":
		return php.GetLanguage(), &language{name: "php", classify: classifyPHP, comments: cStyleComments}, true
	case "csharp", "cs":
		return csharp.GetLanguage(), &language{name: "csharp", classify: classifyCSharp, comments: cStyleComments}, true
	case "kotlin", "kt", "kts":
		return kotlin.GetLanguage(), &language{name: "kotlin", classify: classifyKotlin, comments: cStyleComments}, true
	case "lua":
		return lua.GetLanguage(), &language{name: "lua", classify: classifyLua, comments: luaComments}, true
	case "bash", "sh", "shell":
		return bash.GetLanguage(), &language{name: "bash", classify: classifyBash, comments: hashComments}, true
	case "sql":
		return sql.GetLanguage(), &language{name: "sql", comments: sqlComments}, true
	case "proto", "protobuf":
		return protobuf.GetLanguage(), &language{name: "proto", comments: cStyleComments}, true
	case "html", "htm":
		return html.GetLanguage(), &language{name: "html"}, true
	case "css":
		return css.GetLanguage(), &language{name: "css", comments: types.CommentStyle{BlockStart: "/*", BlockEnd: "*/"}}, true
	case "yaml", "yml":
		return yaml.GetLanguage(), &language{name: "yaml", comments: hashComments}, true
	case "toml":
		return toml.GetLanguage(), &language{name: "toml", comments: hashComments}, true
	case "hcl", "tf", "terraform":
		return hcl.GetLanguage(), &language{name: "hcl", comments: hashComments}, true
	}
	return nil, nil, false
}
