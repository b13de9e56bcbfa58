package chunker

import "github.com/spetr/code-chunker/pkg/types"

// windowRange emits fixed-size chunks over src[start:end) with
// OverlapSize characters repeated at the head of each subsequent
// chunk. Cuts land on the nearest preceding line boundary within the
// configured lookback, falling back to a hard cut clamped to a UTF-8
// rune boundary, so no chunk boundary ever splits a character. The
// terminal chunk may be shorter than the ceiling.
//
// This is the only strategy that needs no tree, and the fallback the
// normalizer uses to split oversize chunks from any other strategy.
func (e *Engine) windowRange(src []byte, li *lineIndex, start, end uint32, tag types.Strategy) []*types.Chunk {
	if start >= end {
		return nil
	}
	max := uint32(e.cfg.MaxChunkSize)
	overlap := uint32(e.cfg.OverlapSize)
	lookback := uint32(e.cfg.lineLookback())

	var out []*types.Chunk
	pos := start
	for pos < end {
		cut := pos + max
		if cut >= end {
			cut = end
		} else {
			cut = e.alignCut(src, pos, cut, lookback)
		}

		// Tagged only when the chunk actually repeats bytes of its
		// predecessor; a carry-over the stall guard cancelled stays
		// untagged.
		out = append(out, &types.Chunk{
			Kind:       types.ElementBlock,
			Strategy:   tag,
			StartByte:  pos,
			EndByte:    cut,
			HasOverlap: len(out) > 0 && pos < out[len(out)-1].EndByte,
		})

		if cut >= end {
			break
		}
		next := cut
		if overlap > 0 && cut > pos+overlap {
			next = alignRuneDown(src, cut-overlap)
			if next <= pos {
				next = cut // never stall
			}
		}
		pos = next
	}
	return out
}

// alignCut moves a raw cut point back to the closest line boundary
// within lookback bytes, or to a rune boundary when no newline is near
// enough.
func (e *Engine) alignCut(src []byte, start, cut, lookback uint32) uint32 {
	floor := start + 1
	if cut > lookback && cut-lookback > floor {
		floor = cut - lookback
	}
	for i := cut; i > floor; i-- {
		if src[i-1] == '\n' {
			return i
		}
	}
	if r := alignRuneDown(src, cut); r > start {
		return r
	}
	return cut
}
