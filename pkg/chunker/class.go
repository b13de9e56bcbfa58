package chunker

import "github.com/spetr/code-chunker/pkg/types"

// chunkByClasses produces one candidate chunk per class, spanning the
// entire class body including all contained methods. A class whose
// span exceeds the size ceiling is decomposed instead: one chunk per
// direct method (or nested class), plus chunks for the class-level
// statements between them, so class scope never silently disappears.
func (e *Engine) chunkByClasses(els []types.Element, src []byte, li *lineIndex) []*types.Chunk {
	var out []*types.Chunk
	for i := range els {
		el := &els[i]
		if el.Kind != types.ElementClass {
			continue
		}
		if enclosedByKind(els, i, types.ElementClass) {
			continue // nested classes are covered by the outermost class
		}

		if el.Len() <= e.cfg.MaxChunkSize {
			out = append(out, &types.Chunk{
				Kind:        types.ElementClass,
				Name:        el.Name,
				Strategy:    types.StrategyClass,
				StartByte:   el.StartByte,
				EndByte:     el.EndByte,
				ElementRefs: []int{i},
			})
			continue
		}

		out = append(out, e.decomposeClass(els, i)...)
	}
	return out
}

// decomposeClass splits an oversize class into per-member chunks plus
// chunks for the class-level statements not inside any member.
func (e *Engine) decomposeClass(els []types.Element, idx int) []*types.Chunk {
	cls := &els[idx]
	members := childElements(els, idx)

	var out []*types.Chunk
	pos := cls.StartByte
	for _, m := range members {
		mel := &els[m]
		if mel.StartByte > pos {
			// Class-level statements between members (attributes,
			// declaration line, stray code).
			out = append(out, &types.Chunk{
				Kind:        types.ElementClass,
				Name:        cls.Name,
				Strategy:    types.StrategyClass,
				StartByte:   pos,
				EndByte:     mel.StartByte,
				ElementRefs: []int{idx},
			})
		}
		out = append(out, &types.Chunk{
			Kind:        mel.Kind,
			Name:        mel.Name,
			Strategy:    types.StrategyClass,
			StartByte:   mel.StartByte,
			EndByte:     mel.EndByte,
			ElementRefs: []int{m},
		})
		if mel.EndByte > pos {
			pos = mel.EndByte
		}
	}
	if pos < cls.EndByte {
		out = append(out, &types.Chunk{
			Kind:        types.ElementClass,
			Name:        cls.Name,
			Strategy:    types.StrategyClass,
			StartByte:   pos,
			EndByte:     cls.EndByte,
			ElementRefs: []int{idx},
		})
	}
	return out
}
