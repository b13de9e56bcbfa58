package chunker

import (
	"regexp"
	"testing"

	"github.com/spetr/code-chunker/pkg/types"
)

func TestAttachMetadataInteriorDocstring(t *testing.T) {
	src := `def fetch(url):
    """Fetch a URL and return the body.

    Retries are the caller's problem.
    """
    return get(url)
`
	_, fnEnd := span(t, src, "return get(url)")
	unit := newUnit(t, src, node("func", "fetch", 0, fnEnd))

	cfg := DefaultConfig()
	cfg.Strategy = types.StrategyFunction
	cfg.MinChunkSize = 10
	cfg.ContextLines = 0
	chunks := mustChunk(t, mustEngine(t, cfg), unit)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	want := "Fetch a URL and return the body.\n\n    Retries are the caller's problem."
	if chunks[0].Docstring != want {
		t.Errorf("docstring = %q, want %q", chunks[0].Docstring, want)
	}
}

func TestAttachMetadataLeadingComments(t *testing.T) {
	src := `x = 1

# Normalizes the input path.
# Symlinks are not resolved.
def norm(p):
    return clean(p)
`
	fnStart, fnEnd := span(t, src, "def norm(p):\n    return clean(p)")

	unit := newUnit(t, src,
		stmt(0, 5),
		node("func", "norm", fnStart, fnEnd),
	)

	cfg := DefaultConfig()
	cfg.Strategy = types.StrategyFunction
	cfg.MinChunkSize = 5
	cfg.MergeSmallChunks = false
	cfg.ContextLines = 0
	chunks := mustChunk(t, mustEngine(t, cfg), unit)

	var fn *types.Chunk
	for _, c := range chunks {
		if c.Name == "norm" {
			fn = c
		}
	}
	if fn == nil {
		t.Fatal("no chunk for norm")
	}
	want := "Normalizes the input path.\nSymlinks are not resolved."
	if fn.Docstring != want {
		t.Errorf("docstring = %q, want %q", fn.Docstring, want)
	}
}

func TestChunkIDFormatAndDeterminism(t *testing.T) {
	unit := classUnit(t)
	cfg := DefaultConfig()
	cfg.Strategy = types.StrategyClass
	first := mustChunk(t, mustEngine(t, cfg), unit)
	second := mustChunk(t, mustEngine(t, cfg), classUnit(t))

	idRE := regexp.MustCompile(`^test\.py:\d+:[0-9a-f]{8}$`)
	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i, c := range first {
		if !idRE.MatchString(c.ID) {
			t.Errorf("chunk ID %q does not match path:line:hash", c.ID)
		}
		if c.ID != second[i].ID {
			t.Errorf("chunk %d ID changed between runs: %q vs %q", i, c.ID, second[i].ID)
		}
		if c.Hash != second[i].Hash {
			t.Errorf("chunk %d hash changed between runs", i)
		}
	}
}

func TestAttachMetadataSizesAndLines(t *testing.T) {
	src := "def a():\n    pass\n"
	_, fnEnd := span(t, src, "def a():\n    pass")
	unit := newUnit(t, src, node("func", "a", 0, fnEnd))

	cfg := DefaultConfig()
	cfg.Strategy = types.StrategyFunction
	cfg.MinChunkSize = 5
	cfg.ContextLines = 0
	chunks := mustChunk(t, mustEngine(t, cfg), unit)

	c := chunks[0]
	if c.SizeChars != len(c.Content) {
		t.Errorf("size_chars = %d, want %d", c.SizeChars, len(c.Content))
	}
	if c.SizeTokens <= 0 || c.SizeTokens > c.SizeChars {
		t.Errorf("size_tokens = %d out of plausible range", c.SizeTokens)
	}
	if c.StartLine != 1 || c.EndLine != 2 {
		t.Errorf("lines = [%d,%d], want [1,2]", c.StartLine, c.EndLine)
	}
	if c.Language != "python" || c.FilePath != "test.py" {
		t.Errorf("chunk provenance = %s %s", c.FilePath, c.Language)
	}
}
