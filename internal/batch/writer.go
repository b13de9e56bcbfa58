package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spetr/code-chunker/internal/config"
	"github.com/spetr/code-chunker/pkg/types"
)

// Writer serializes chunks to the configured output.
type Writer struct {
	w      *bufio.Writer
	closer io.Closer
	format string
}

// NewWriter opens the configured output destination. Path "-" writes
// to stdout.
func NewWriter(cfg config.OutputConfig) (*Writer, error) {
	var out io.Writer = os.Stdout
	var closer io.Closer
	if cfg.Path != "" && cfg.Path != "-" {
		f, err := os.Create(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		out = f
		closer = f
	}
	return &Writer{w: bufio.NewWriter(out), closer: closer, format: cfg.Format}, nil
}

// Write serializes the chunks: one JSON object per line for jsonl, a
// single array for json.
func (w *Writer) Write(chunks []*types.Chunk) error {
	switch w.format {
	case "json":
		enc := json.NewEncoder(w.w)
		enc.SetIndent("", "  ")
		return enc.Encode(chunks)
	default: // jsonl
		enc := json.NewEncoder(w.w)
		for _, c := range chunks {
			if err := enc.Encode(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close flushes buffered output and closes the destination file, if
// one was opened.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
