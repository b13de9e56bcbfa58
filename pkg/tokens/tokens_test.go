package tokens

import "testing"

func TestHeuristicCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"func main() {\n}\n", 4},
	}

	var h Heuristic
	for _, tt := range tests {
		if got := h.Count(tt.text); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestNewTikTokenUnknownEncoding(t *testing.T) {
	if _, err := NewTikToken("no-such-encoding"); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}
