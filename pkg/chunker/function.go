package chunker

import "github.com/spetr/code-chunker/pkg/types"

// chunkByFunctions produces one candidate chunk per outermost function
// or method element. Functions nested inside another function (e.g. a
// closure) stay inside their parent's chunk. Each chunk may be padded
// with ContextLines of immediately preceding text (decorators,
// attributes, adjacent comments), clipped so it never reaches into a
// preceding element.
func (e *Engine) chunkByFunctions(els []types.Element, src []byte, li *lineIndex) []*types.Chunk {
	var out []*types.Chunk
	for i := range els {
		el := &els[i]
		if el.Kind != types.ElementFunction && el.Kind != types.ElementMethod {
			continue
		}
		if enclosedByKind(els, i, types.ElementFunction, types.ElementMethod) {
			continue
		}

		start := el.StartByte
		padded := false
		if e.cfg.ContextLines > 0 {
			s := e.contextStart(els, i, li)
			if s < start {
				start = s
				padded = true
			}
		}

		out = append(out, &types.Chunk{
			Kind:        el.Kind,
			Name:        el.Name,
			Strategy:    types.StrategyFunction,
			StartByte:   start,
			EndByte:     el.EndByte,
			ElementRefs: []int{i},
			HasOverlap:  padded,
		})
	}
	return out
}

// contextStart computes the padded start offset for the element at
// idx: ContextLines lines above its own first line, clipped at the end
// of the nearest preceding element.
func (e *Engine) contextStart(els []types.Element, idx int, li *lineIndex) uint32 {
	el := &els[idx]
	target := li.startOfLine(el.StartLine - e.cfg.ContextLines)

	// Never reach into a preceding sibling or top-level element.
	// Ancestors end after el, so they are excluded naturally.
	var floor uint32
	for j := range els {
		if j == idx {
			continue
		}
		if els[j].EndByte <= el.StartByte && els[j].EndByte > floor {
			floor = els[j].EndByte
		}
	}
	if floor > 0 {
		floor = li.nextLineStart(floor)
	}
	if target < floor {
		target = floor
	}
	return target
}
