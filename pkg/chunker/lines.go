package chunker

import (
	"sort"
	"unicode/utf8"
)

// lineIndex precomputes line start offsets for O(log n) byte-to-line
// lookups during a single chunking invocation.
type lineIndex struct {
	starts []uint32 // byte offset of each line start, starts[0] == 0
	size   uint32   // total buffer length
}

func newLineIndex(src []byte) *lineIndex {
	starts := []uint32{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return &lineIndex{starts: starts, size: uint32(len(src))}
}

// lineOf returns the 1-based line number containing the byte offset.
func (li *lineIndex) lineOf(off uint32) int {
	i := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > off
	})
	return i // starts[i-1] <= off < starts[i], lines are 1-based
}

// startOfLine returns the byte offset where the 1-based line begins.
func (li *lineIndex) startOfLine(line int) uint32 {
	if line < 1 {
		line = 1
	}
	if line > len(li.starts) {
		line = len(li.starts)
	}
	return li.starts[line-1]
}

// endOfLine returns the exclusive byte offset where the 1-based line
// ends, including its newline.
func (li *lineIndex) endOfLine(line int) uint32 {
	if line >= len(li.starts) {
		return li.size
	}
	return li.starts[line]
}

// lineCount returns the number of lines in the buffer.
func (li *lineIndex) lineCount() int {
	return len(li.starts)
}

// nextLineStart returns the first line start offset >= off.
func (li *lineIndex) nextLineStart(off uint32) uint32 {
	line := li.lineOf(off)
	if li.startOfLine(line) == off {
		return off
	}
	return li.endOfLine(line)
}

// isBlankLine reports whether the 1-based line is whitespace-only.
func (li *lineIndex) isBlankLine(src []byte, line int) bool {
	return isWhitespace(src[li.startOfLine(line):li.endOfLine(line)])
}

// blankRunBetween returns the longest run of consecutive blank lines
// among lines lying strictly between the two byte offsets.
func (li *lineIndex) blankRunBetween(src []byte, from, to uint32) int {
	first := li.lineOf(from)
	if li.startOfLine(first) != from {
		first++ // skip the partial line the previous element ends on
	}
	last := li.lineOf(to) - 1 // the line the next element starts on is excluded
	run, best := 0, 0
	for line := first; line <= last; line++ {
		if li.isBlankLine(src, line) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// isWhitespace reports whether the byte slice contains only whitespace.
func isWhitespace(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}

// alignRuneDown moves an offset backwards until it no longer points
// into the middle of a multi-byte UTF-8 sequence.
func alignRuneDown(src []byte, off uint32) uint32 {
	for off > 0 && off < uint32(len(src)) && !utf8.RuneStart(src[off]) {
		off--
	}
	return off
}
