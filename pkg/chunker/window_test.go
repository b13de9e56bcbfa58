package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spetr/code-chunker/pkg/types"
)

// windowUnit builds a unit whose tree carries no elements, as for a
// language the parser cannot classify.
func windowUnit(t *testing.T, src string) *SourceUnit {
	return newUnit(t, src)
}

func TestWindowStrategyOverlap(t *testing.T) {
	// 2500 chars of 25-char lines, max 1000 with 100 overlap: three
	// chunks of roughly 1000/1000/600 where each subsequent chunk
	// repeats the previous chunk's tail.
	line := "abcdefghijklmnopqrstuvwx\n" // 25 chars
	src := strings.Repeat(line, 100)     // 2500 chars

	cfg := DefaultConfig()
	cfg.Strategy = types.StrategyWindow
	cfg.MaxChunkSize = 1000
	cfg.OverlapSize = 100
	cfg.MergeSmallChunks = false
	chunks := mustChunk(t, mustEngine(t, cfg), windowUnit(t, src))

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, want := range []int{1000, 1000, 700} {
		if got := chunks[i].SizeChars; got != want {
			t.Errorf("chunk %d size = %d, want %d", i, got, want)
		}
	}

	head := chunks[1].Content[:100]
	tail := chunks[0].Content[len(chunks[0].Content)-100:]
	if head != tail {
		t.Errorf("chunk 2 head does not repeat chunk 1 tail:\n%q\n%q", head, tail)
	}
	if chunks[0].HasOverlap {
		t.Error("first chunk must not be tagged HasOverlap")
	}
	if !chunks[1].HasOverlap || !chunks[2].HasOverlap {
		t.Error("subsequent chunks must be tagged HasOverlap")
	}
}

func TestWindowStrategyOverlapTagOnlyWhenBytesRepeat(t *testing.T) {
	// The first cut aligns to a line boundary so close to the window
	// start that the carry-over point lands at or behind it: nothing is
	// repeated, so the next chunk must stay untagged. The step after
	// that overlaps normally.
	src := strings.Repeat("x", 19) + "\n" + strings.Repeat("y", 140)

	cfg := DefaultConfig()
	cfg.Strategy = types.StrategyWindow
	cfg.MaxChunkSize = 100
	cfg.OverlapSize = 60
	cfg.LineLookback = 90
	cfg.MergeSmallChunks = false
	chunks := mustChunk(t, mustEngine(t, cfg), windowUnit(t, src))

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if chunks[0].HasOverlap {
		t.Error("first chunk must not be tagged HasOverlap")
	}
	if chunks[1].HasOverlap {
		t.Errorf("chunk [%d,%d) repeats nothing of [%d,%d), must not be tagged HasOverlap",
			chunks[1].StartByte, chunks[1].EndByte, chunks[0].StartByte, chunks[0].EndByte)
	}
	if !chunks[2].HasOverlap {
		t.Error("chunk repeating its predecessor's tail must be tagged HasOverlap")
	}
}

func TestWindowStrategyBreaksAtLineBoundaries(t *testing.T) {
	line := "abcdefghijklmnopqrstuvwx\n"
	src := strings.Repeat(line, 100)

	cfg := DefaultConfig()
	cfg.Strategy = types.StrategyWindow
	cfg.MaxChunkSize = 990 // not a multiple of the line length
	cfg.OverlapSize = 0
	cfg.MergeSmallChunks = false
	chunks := mustChunk(t, mustEngine(t, cfg), windowUnit(t, src))

	for i, c := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(c.Content, "\n") {
			t.Errorf("chunk %d does not end at a line boundary", i)
		}
	}
}

func TestWindowStrategyHardCutFallback(t *testing.T) {
	// A single enormous line: no newline within the lookback, so the
	// window must hard-cut instead of scanning forever.
	src := strings.Repeat("a", 2200)

	cfg := DefaultConfig()
	cfg.Strategy = types.StrategyWindow
	cfg.MaxChunkSize = 1000
	cfg.OverlapSize = 0
	cfg.MergeSmallChunks = false
	chunks := mustChunk(t, mustEngine(t, cfg), windowUnit(t, src))

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if chunks[0].SizeChars != 1000 || chunks[1].SizeChars != 1000 || chunks[2].SizeChars != 200 {
		t.Errorf("sizes = %d/%d/%d, want 1000/1000/200",
			chunks[0].SizeChars, chunks[1].SizeChars, chunks[2].SizeChars)
	}
}

func TestWindowStrategyNeverSplitsRunes(t *testing.T) {
	// Multi-byte runes with no newlines force hard cuts; every cut
	// must stay on a rune boundary.
	src := strings.Repeat("héllo wörld çödé ", 200)

	cfg := DefaultConfig()
	cfg.Strategy = types.StrategyWindow
	cfg.MaxChunkSize = 500
	cfg.OverlapSize = 50
	cfg.MergeSmallChunks = false
	chunks := mustChunk(t, mustEngine(t, cfg), windowUnit(t, src))

	for i, c := range chunks {
		if !utf8.ValidString(c.Content) {
			t.Errorf("chunk %d content is not valid UTF-8", i)
		}
	}
}

func TestWindowStrategyTotalCoverage(t *testing.T) {
	src := strings.Repeat("some code here\n", 333)

	cfg := DefaultConfig()
	cfg.Strategy = types.StrategyWindow
	cfg.OverlapSize = 0
	cfg.MergeSmallChunks = false
	chunks := mustChunk(t, mustEngine(t, cfg), windowUnit(t, src))

	var joined strings.Builder
	for _, c := range chunks {
		joined.WriteString(c.Content)
	}
	if joined.String() != src {
		t.Error("window chunks with zero overlap must tile the file exactly")
	}
}
