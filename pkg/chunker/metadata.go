package chunker

import (
	"strings"

	"github.com/spetr/code-chunker/pkg/types"
)

// attachMetadata finalizes chunks: content, line spans, covered
// element references, docstrings, sizes, content hash and the
// deterministic identifier. Side-effect free; no I/O.
func (e *Engine) attachMetadata(chunks []*types.Chunk, els []types.Element, src []byte, li *lineIndex, file *types.SourceFile, style types.CommentStyle) {
	for _, c := range chunks {
		c.FilePath = file.Path
		c.Language = file.Language
		c.Content = string(src[c.StartByte:c.EndByte])
		c.StartLine = li.lineOf(c.StartByte)
		c.EndLine = li.lineOf(c.EndByte - 1)

		c.ElementRefs = coveredElements(els, c)
		if len(c.ElementRefs) > 0 {
			first := &els[c.ElementRefs[0]]
			if c.Kind == "" || c.Kind == types.ElementBlock {
				c.Kind = first.Kind
			}
			if c.Name == "" {
				c.Name = first.Name
			}
			c.Docstring = extractDocstring(src, li, first, style)
		}
		if c.Kind == "" {
			c.Kind = types.ElementBlock
		}

		c.SizeChars = len(c.Content)
		c.SizeTokens = e.counter.Count(c.Content)
		c.Hash = c.ComputeHash()
		c.ID = c.GenerateID()
	}
}

// coveredElements returns the indices of elements fully contained in
// the chunk's span, in source order.
func coveredElements(els []types.Element, c *types.Chunk) []int {
	var out []int
	for i := range els {
		if els[i].StartByte >= c.StartByte && els[i].EndByte <= c.EndByte {
			out = append(out, i)
		}
	}
	return out
}

// extractDocstring pulls the documentation comment attached to an
// element, using the caller-supplied comment syntax. Languages whose
// block delimiters are symmetric (Python's triple quotes) document
// inside the element body; everything else documents in the lines
// directly above it.
func extractDocstring(src []byte, li *lineIndex, el *types.Element, style types.CommentStyle) string {
	if style.BlockStart != "" && style.BlockStart == style.BlockEnd {
		if doc := interiorDocstring(src, li, el, style); doc != "" {
			return doc
		}
	}
	return leadingComment(src, li, el, style)
}

// interiorDocstring extracts a docstring that is the first statement
// inside the element body, delimited by the symmetric block marker.
func interiorDocstring(src []byte, li *lineIndex, el *types.Element, style types.CommentStyle) string {
	body := string(src[el.StartByte:el.EndByte])
	// Skip the declaration line(s) up to the first line ending the header.
	idx := strings.Index(body, "\n")
	if idx < 0 {
		return ""
	}
	rest := strings.TrimLeft(body[idx+1:], " \t\r\n")
	if !strings.HasPrefix(rest, style.BlockStart) {
		return ""
	}
	rest = rest[len(style.BlockStart):]
	end := strings.Index(rest, style.BlockEnd)
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// leadingComment collects the contiguous comment lines immediately
// above the element, in either line-prefix or block form.
func leadingComment(src []byte, li *lineIndex, el *types.Element, style types.CommentStyle) string {
	line := el.StartLine - 1
	if line < 1 {
		return ""
	}

	// Block comment ending directly above the element.
	if style.BlockEnd != "" && style.BlockStart != style.BlockEnd {
		text := strings.TrimSpace(lineText(src, li, line))
		if strings.HasSuffix(text, style.BlockEnd) {
			return blockCommentAbove(src, li, line, style)
		}
	}

	if style.LinePrefix == "" {
		return ""
	}
	var collected []string
	for line >= 1 {
		text := strings.TrimSpace(lineText(src, li, line))
		if !strings.HasPrefix(text, style.LinePrefix) {
			break
		}
		stripped := strings.TrimSpace(strings.TrimPrefix(text, style.LinePrefix))
		collected = append([]string{stripped}, collected...)
		line--
	}
	return strings.Join(collected, "\n")
}

// blockCommentAbove walks upwards from the line holding the block
// terminator until it finds the opener, and returns the inner text.
func blockCommentAbove(src []byte, li *lineIndex, endLine int, style types.CommentStyle) string {
	for start := endLine; start >= 1; start-- {
		text := strings.TrimSpace(lineText(src, li, start))
		if strings.HasPrefix(text, style.BlockStart) {
			raw := string(src[li.startOfLine(start):li.endOfLine(endLine)])
			raw = strings.TrimSpace(raw)
			raw = strings.TrimPrefix(raw, style.BlockStart)
			raw = strings.TrimSuffix(raw, style.BlockEnd)
			var lines []string
			for _, l := range strings.Split(raw, "\n") {
				lines = append(lines, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "*")))
			}
			return strings.TrimSpace(strings.Join(lines, "\n"))
		}
	}
	return ""
}

// lineText returns the raw text of a 1-based line without its newline.
func lineText(src []byte, li *lineIndex, line int) string {
	start := li.startOfLine(line)
	end := li.endOfLine(line)
	for end > start && (src[end-1] == '\n' || src[end-1] == '\r') {
		end--
	}
	return string(src[start:end])
}
