package util

import (
	"io"
	"sync/atomic"
)

// CountingWriter is an io.Writer that discards its input and counts the number
// of bytes written. It is safe for concurrent use.
type CountingWriter struct {
	n atomic.Uint64
}

// Assert that the CountingWriter struct satisfies the io.Writer interface.
var _ io.Writer = &CountingWriter{}

func (w *CountingWriter) Write(p []byte) (int, error) {
	w.n.Add(uint64(len(p)))
	return len(p), nil
}

// Count returns the number of bytes written so far.
func (w *CountingWriter) Count() uint64 {
	return w.n.Load()
}
