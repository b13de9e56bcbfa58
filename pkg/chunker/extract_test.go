package chunker

import (
	"errors"
	"testing"

	"github.com/spetr/code-chunker/pkg/types"
)

const classSrc = `class Greeter:
    count = 0

    def hello(self):
        return "hello"

    def bye(self):
        return "bye"

print("done")
`

// classUnit builds a unit with one class, two methods and a trailing
// statement, using real byte offsets from the source text.
func classUnit(t *testing.T) *SourceUnit {
	t.Helper()
	clsStart, _ := span(t, classSrc, "class Greeter:")
	_, clsEnd := span(t, classSrc, `return "bye"`)
	helloStart, helloEnd := span(t, classSrc, "def hello(self):\n        return \"hello\"")
	byeStart, byeEnd := span(t, classSrc, "def bye(self):\n        return \"bye\"")
	printStart, printEnd := span(t, classSrc, `print("done")`)

	return newUnit(t, classSrc,
		node("class", "Greeter", clsStart, clsEnd,
			node("func", "hello", helloStart, helloEnd),
			node("func", "bye", byeStart, byeEnd),
		),
		stmt(printStart, printEnd),
	)
}

func TestExtractElements(t *testing.T) {
	unit := classUnit(t)
	els, err := extractElements(unit.Tree, unit.File.Content, unit.Language, unit.File.Path)
	if err != nil {
		t.Fatalf("extractElements() error: %v", err)
	}

	if len(els) != 4 {
		t.Fatalf("got %d elements, want 4", len(els))
	}

	wantKinds := []types.ElementKind{
		types.ElementClass, types.ElementMethod, types.ElementMethod, types.ElementBlock,
	}
	for i, k := range wantKinds {
		if els[i].Kind != k {
			t.Errorf("element %d kind = %s, want %s", i, els[i].Kind, k)
		}
	}

	if els[0].Name != "Greeter" || els[1].Name != "hello" || els[2].Name != "bye" {
		t.Errorf("unexpected names: %q %q %q", els[0].Name, els[1].Name, els[2].Name)
	}
	if els[1].Parent != 0 || els[2].Parent != 0 {
		t.Errorf("methods should have the class as parent, got %d and %d", els[1].Parent, els[2].Parent)
	}
	if els[3].Parent != -1 {
		t.Errorf("trailing statement parent = %d, want -1", els[3].Parent)
	}
	if els[0].Depth != 0 || els[1].Depth != 1 {
		t.Errorf("unexpected depths: class=%d method=%d", els[0].Depth, els[1].Depth)
	}

	// Ordered by source position, children nested in parents.
	for i := 1; i < len(els); i++ {
		if els[i].StartByte < els[i-1].StartByte {
			t.Errorf("elements out of order at %d", i)
		}
	}
	if !els[0].Contains(&els[1]) || !els[0].Contains(&els[2]) {
		t.Error("method spans must be contained in the class span")
	}
}

func TestExtractFunctionInsideClassIsMethod(t *testing.T) {
	src := "class C:\n    def m(self):\n        pass\n"
	mStart, mEnd := span(t, src, "def m(self):\n        pass")
	unit := newUnit(t, src,
		node("class", "C", 0, len(src)-1,
			node("func", "m", mStart, mEnd),
		),
	)
	els, err := extractElements(unit.Tree, unit.File.Content, unit.Language, unit.File.Path)
	if err != nil {
		t.Fatalf("extractElements() error: %v", err)
	}
	if els[1].Kind != types.ElementMethod {
		t.Errorf("kind = %s, want method", els[1].Kind)
	}
}

func TestExtractMalformedTree(t *testing.T) {
	src := "def f():\n    pass\n"

	t.Run("span beyond buffer", func(t *testing.T) {
		unit := newUnit(t, src, node("func", "f", 0, len(src)+10))
		unit.Tree.(*fakeTree).root.end = uint32(len(src))
		_, err := extractElements(unit.Tree, unit.File.Content, unit.Language, unit.File.Path)
		if !errors.Is(err, types.ErrMalformedTree) {
			t.Fatalf("error = %v, want ErrMalformedTree", err)
		}
		var mte *types.MalformedTreeError
		if !errors.As(err, &mte) || mte.Path != "test.py" {
			t.Errorf("error should be a MalformedTreeError carrying the path, got %v", err)
		}
	})

	t.Run("child escapes parent", func(t *testing.T) {
		unit := newUnit(t, src,
			node("func", "f", 4, 10,
				node("func", "g", 2, 8),
			),
		)
		_, err := extractElements(unit.Tree, unit.File.Content, unit.Language, unit.File.Path)
		if !errors.Is(err, types.ErrMalformedTree) {
			t.Fatalf("error = %v, want ErrMalformedTree", err)
		}
	})
}

func TestExtractWrapperNodesSurfaceInnerElements(t *testing.T) {
	src := "@deco\ndef f():\n    pass\n"
	fStart, fEnd := span(t, src, "def f():\n    pass")
	// The decorator wrapper is unclassifiable but contains a function;
	// the function must surface at top level rather than become a block.
	unit := newUnit(t, src,
		node("decorated", "", 0, fEnd,
			node("func", "f", fStart, fEnd),
		),
	)
	els, err := extractElements(unit.Tree, unit.File.Content, unit.Language, unit.File.Path)
	if err != nil {
		t.Fatalf("extractElements() error: %v", err)
	}
	if len(els) != 1 || els[0].Kind != types.ElementFunction || els[0].Parent != -1 {
		t.Fatalf("got %+v, want one top-level function", els)
	}
}
