package chunker

import (
	"fmt"

	"github.com/spetr/code-chunker/pkg/types"
)

// normalize turns any strategy's candidate sequence into the final
// chunk sequence: fill coverage gaps, split oversize chunks via the
// sliding window, then merge adjacent undersized chunks left to right.
// Every chunk ends up within [MinChunkSize, MaxChunkSize] except the
// terminal chunk of the file and chunks flagged unsplittable, which
// pass through with a truncation-risk flag instead of being corrupted.
func (e *Engine) normalize(candidates []*types.Chunk, src []byte, li *lineIndex) ([]*types.Chunk, error) {
	sortChunks(candidates)
	candidates = e.coverGaps(candidates, src, li)

	var sized []*types.Chunk
	for _, c := range candidates {
		if spanLen(c) <= e.cfg.MaxChunkSize {
			sized = append(sized, c)
			continue
		}
		if c.Unsplittable {
			c.TruncationRisk = true
			sized = append(sized, c)
			continue
		}
		// Oversize but structured: defer to the sliding window.
		split := e.windowRange(src, li, c.StartByte, c.EndByte, c.Strategy)
		for _, s := range split {
			s.Kind = c.Kind
			s.Name = c.Name
		}
		sized = append(sized, split...)
	}

	if !e.cfg.MergeSmallChunks || len(sized) == 0 {
		return sized, nil
	}

	var out []*types.Chunk
	cur := sized[0]
	for _, next := range sized[1:] {
		if spanLen(cur) >= e.cfg.MinChunkSize {
			out = append(out, cur)
			cur = next
			continue
		}
		if next.StartByte < cur.EndByte {
			// Overlapping neighbor (window carry-over): merging would
			// duplicate bytes, emit the undersized chunk as-is.
			out = append(out, cur)
			cur = next
			continue
		}
		if spanUnion(cur, next) > e.cfg.MaxChunkSize || next.TruncationRisk {
			// Undersized beats over the ceiling: embedding correctness
			// outranks size-floor compliance.
			out = append(out, cur)
			cur = next
			continue
		}
		merged, err := mergeChunks(cur, next)
		if err != nil {
			return nil, err
		}
		cur = merged
	}
	out = append(out, cur)
	return out, nil
}

// coverGaps guarantees that the candidate spans tile the buffer. Gaps
// of pure whitespace are absorbed into the following chunk (or the
// preceding one at end of file); gaps containing code become generic
// block candidates. Without this pass strategies like function-based
// would silently lose module-level text.
func (e *Engine) coverGaps(candidates []*types.Chunk, src []byte, li *lineIndex) []*types.Chunk {
	size := uint32(len(src))
	if size == 0 {
		return candidates
	}
	if len(candidates) == 0 {
		return e.windowRange(src, li, 0, size, e.cfg.Strategy)
	}

	var out []*types.Chunk
	var pos uint32
	for _, c := range candidates {
		if c.StartByte > pos {
			if isWhitespace(src[pos:c.StartByte]) {
				c.StartByte = pos
			} else {
				out = append(out, &types.Chunk{
					Kind:      types.ElementBlock,
					Strategy:  c.Strategy,
					StartByte: pos,
					EndByte:   c.StartByte,
				})
			}
		}
		out = append(out, c)
		if c.EndByte > pos {
			pos = c.EndByte
		}
	}
	if pos < size {
		last := out[len(out)-1]
		if isWhitespace(src[pos:]) && !last.Unsplittable {
			last.EndByte = size
		} else {
			out = append(out, &types.Chunk{
				Kind:      types.ElementBlock,
				Strategy:  last.Strategy,
				StartByte: pos,
				EndByte:   size,
			})
		}
	}
	sortChunks(out)
	return out
}

// mergeChunks combines two adjacent chunks into one. The spans must be
// contiguous; merging non-adjacent chunks is an internal invariant
// violation, never a recoverable condition.
func mergeChunks(a, b *types.Chunk) (*types.Chunk, error) {
	if a.EndByte != b.StartByte {
		return nil, fmt.Errorf("%w: merge of non-adjacent chunks [%d,%d) and [%d,%d)",
			types.ErrInvariant, a.StartByte, a.EndByte, b.StartByte, b.EndByte)
	}
	refs := append(append([]int(nil), a.ElementRefs...), b.ElementRefs...)
	return &types.Chunk{
		Kind:        a.Kind,
		Name:        a.Name,
		Strategy:    a.Strategy,
		StartByte:   a.StartByte,
		EndByte:     b.EndByte,
		ElementRefs: refs,
		IsMerged:    true,
		HasOverlap:  a.HasOverlap || b.HasOverlap,
	}, nil
}

func spanLen(c *types.Chunk) int {
	return int(c.EndByte - c.StartByte)
}

func spanUnion(a, b *types.Chunk) int {
	return int(b.EndByte - a.StartByte)
}
