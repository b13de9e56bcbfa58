package treesitter

import (
	"path/filepath"
	"strings"
)

// DetectLanguage detects the language tag from a file path.
func DetectLanguage(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if base == "dockerfile" {
		return "dockerfile"
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".jsx":
		return "jsx"
	case ".ts":
		return "typescript"
	case ".tsx":
		return "tsx"
	case ".rs":
		return "rust"
	case ".java":
		return "java"
	case ".c":
		return "c"
	case ".h":
		return "h"
	case ".cpp", ".cc", ".cxx":
		return "cpp"
	case ".hpp":
		return "hpp"
	case ".rb":
		return "ruby"
	case ".php":
		return "php"
	case ".cs":
		return "csharp"
	case ".kt", ".kts":
		return "kotlin"
	case ".lua":
		return "lua"
	case ".sh", ".bash":
		return "bash"
	case ".sql":
		return "sql"
	case ".proto":
		return "proto"
	case ".html", ".htm":
		return "html"
	case ".css":
		return "css"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".tf", ".hcl":
		return "hcl"
	case ".md", ".markdown":
		return "markdown"
	case ".json":
		return "json"
	default:
		return "text"
	}
}
