// Package utils holds small helpers shared by the CLI entry point.
package utils

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter buffers writes until Flush. The TUI owns the terminal while
// it runs, so log lines are held back and printed once it exits.
type DeferredWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends p to the buffer.
func (w *DeferredWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// Flush writes everything buffered to out and resets the buffer. Each
// buffered line is written separately so line-oriented writers such as
// zerolog.ConsoleWriter see one event per call.
func (w *DeferredWriter) Flush(out io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	defer w.buf.Reset()
	for {
		line, err := w.buf.ReadBytes('\n')
		if len(line) > 0 {
			if _, werr := out.Write(line); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Len reports the number of buffered bytes.
func (w *DeferredWriter) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Len()
}
