package chunker

import "github.com/spetr/code-chunker/pkg/types"

// chunkSemanticBlocks groups logically related adjacent elements into
// candidate chunks: contiguous runs sharing the same parent and depth,
// split wherever a blank-line run of at least the configured threshold
// separates two neighbors. No two blocks share a byte.
func (e *Engine) chunkSemanticBlocks(els []types.Element, src []byte, li *lineIndex) []*types.Chunk {
	var top []int
	for i := range els {
		if els[i].Parent == -1 {
			top = append(top, i)
		}
	}
	return e.groupRuns(els, top, src, li)
}

// groupRuns builds semantic-block chunks from the given element
// indices, which must be in source order.
func (e *Engine) groupRuns(els []types.Element, indices []int, src []byte, li *lineIndex) []*types.Chunk {
	threshold := e.cfg.blankLineThreshold()

	var out []*types.Chunk
	var run []int
	flush := func() {
		if len(run) == 0 {
			return
		}
		first := &els[run[0]]
		last := &els[run[len(run)-1]]
		c := &types.Chunk{
			Kind:        first.Kind,
			Name:        first.Name,
			Strategy:    types.StrategySemantic,
			StartByte:   first.StartByte,
			EndByte:     last.EndByte,
			ElementRefs: append([]int(nil), run...),
		}
		if len(run) == 1 && !hasChildElements(els, run[0]) {
			// A single unit with no internal structure must not be cut.
			c.Unsplittable = true
		}
		if len(run) > 1 && e.cfg.MergeSmallChunks && allUndersized(els, run, e.cfg.MinChunkSize) {
			// Folding several undersized units into one block is a merge
			// regardless of which pass performed it.
			c.IsMerged = true
		}
		out = append(out, c)
		run = nil
	}

	for _, i := range indices {
		if len(run) > 0 {
			prev := &els[run[len(run)-1]]
			cur := &els[i]
			sameScope := prev.Parent == cur.Parent && prev.Depth == cur.Depth
			if !sameScope || elementBetween(els, prev.EndByte, cur.StartByte) ||
				li.blankRunBetween(src, prev.EndByte, cur.StartByte) >= threshold {
				flush()
			}
		}
		run = append(run, i)
	}
	flush()
	return out
}

// elementBetween reports whether some element lies entirely inside the
// byte range. A run must not span a scope that is chunked separately.
func elementBetween(els []types.Element, from, to uint32) bool {
	for i := range els {
		if els[i].StartByte >= from && els[i].EndByte <= to {
			return true
		}
	}
	return false
}

// allUndersized reports whether every element in the run is below the
// size floor on its own.
func allUndersized(els []types.Element, run []int, min int) bool {
	for _, idx := range run {
		if els[idx].Len() >= min {
			return false
		}
	}
	return true
}

// hasChildElements reports whether any element has idx as parent.
func hasChildElements(els []types.Element, idx int) bool {
	for i := range els {
		if els[i].Parent == idx {
			return true
		}
	}
	return false
}
