package chunker

import "github.com/spetr/code-chunker/pkg/types"

// chunkHybrid composes the structural strategies: class-based and
// function-based carve out the named scopes first, byte ranges they
// leave uncovered (module-level code, stray statements) are grouped by
// the semantic-blocks rules, and anything still oversize is split by
// the sliding window inside the normalizer. The result satisfies the
// same coverage and non-overlap invariants as every other strategy.
func (e *Engine) chunkHybrid(els []types.Element, src []byte, li *lineIndex) []*types.Chunk {
	out := e.chunkByClasses(els, src, li)

	// Coverage is tracked through the candidates' element refs, not
	// chunk spans: a decomposed oversize class is represented by several
	// sub-span chunks, yet the class element and all its descendants are
	// handled and must never be re-emitted by a later pass.
	covered := make([]bool, len(els))
	markCovered := func(idx int) {
		covered[idx] = true
		for i := range els {
			if els[i].StartByte >= els[idx].StartByte && els[i].EndByte <= els[idx].EndByte {
				covered[i] = true
			}
		}
	}
	for _, c := range out {
		for _, idx := range c.ElementRefs {
			markCovered(idx)
		}
	}

	// Function chunks only for functions the class pass did not cover.
	funcs := e.chunkByFunctions(els, src, li)
	for _, c := range funcs {
		idx := c.ElementRefs[0]
		if covered[idx] {
			continue
		}
		out = append(out, c)
		markCovered(idx)
	}

	// Remaining elements are grouped into semantic blocks.
	var rest []int
	for i := range els {
		if !covered[i] && !coveredByAncestor(els, i, covered) {
			rest = append(rest, i)
		}
	}
	out = append(out, e.groupRuns(els, rest, src, li)...)

	sortChunks(out)
	for _, c := range out {
		c.Strategy = types.StrategyHybrid
	}
	return out
}

// coveredByAncestor reports whether some ancestor of idx is covered.
func coveredByAncestor(els []types.Element, idx int, covered []bool) bool {
	for p := els[idx].Parent; p >= 0; p = els[p].Parent {
		if covered[p] {
			return true
		}
	}
	return false
}
