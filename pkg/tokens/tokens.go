// Package tokens provides token counting for chunk size accounting.
package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// CharsPerToken is the rough chars-to-tokens ratio used by the
// heuristic counter.
const CharsPerToken = 4

// DefaultEncoding is the tiktoken encoding used when none is configured.
const DefaultEncoding = "cl100k_base"

// Counter estimates the token count of a text.
type Counter interface {
	Count(text string) int
}

// Heuristic approximates tokens as len(text)/4. It needs no model data
// and is the default counter.
type Heuristic struct{}

// Count returns the approximate token count.
func (Heuristic) Count(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + CharsPerToken - 1) / CharsPerToken
}

// TikToken counts tokens with a real BPE encoding.
type TikToken struct {
	enc *tiktoken.Tiktoken
}

// NewTikToken creates a counter for the given tiktoken encoding name.
// An empty name selects DefaultEncoding.
func NewTikToken(encoding string) (*TikToken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", encoding, err)
	}
	return &TikToken{enc: enc}, nil
}

// Count returns the exact token count under the configured encoding.
func (t *TikToken) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}
