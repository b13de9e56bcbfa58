package batch

import (
	"path/filepath"
	"strings"
)

// matchGlob matches a slash-separated relative path against a glob
// pattern, with ** matching any number of path components. Patterns
// without a separator also match against the basename.
func matchGlob(pattern, path string) bool {
	path = strings.TrimSuffix(path, "/")
	if matchSegments(strings.Split(pattern, "/"), strings.Split(path, "/")) {
		return true
	}
	if !strings.Contains(pattern, "/") {
		matched, _ := filepath.Match(pattern, filepath.Base(path))
		return matched
	}
	return false
}

func matchSegments(pat, parts []string) bool {
	if len(pat) == 0 {
		return len(parts) == 0
	}
	if pat[0] == "**" {
		// Zero components, or swallow one and retry.
		if matchSegments(pat[1:], parts) {
			return true
		}
		return len(parts) > 0 && matchSegments(pat, parts[1:])
	}
	if len(parts) == 0 {
		return false
	}
	if matched, _ := filepath.Match(pat[0], parts[0]); !matched {
		return false
	}
	return matchSegments(pat[1:], parts[1:])
}
