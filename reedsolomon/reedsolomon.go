// Package reedsolomon splits a stream into data and parity shards and joins
// them back together.
package reedsolomon

import (
	"errors"
	"fmt"
	"io"

	rs "github.com/klauspost/reedsolomon"
)

var (
	ErrShardCountMismatch = errors.New("shard count mismatch")
	ErrInvalidBlockSize   = errors.New("block size must be positive")
	ErrCorruptionDetected = errors.New("shard corruption detected")
	ErrWriterClosed       = errors.New("writer is closed")
)

// Writer encodes a stream into a set of shards. Data is buffered into stripes
// of dataShards*blockSize bytes; each stripe adds exactly one block of
// blockSize bytes to every shard. The final stripe is zero padded, so the
// caller must keep track of the size of the original data to join it back.
type Writer struct {
	shards       []io.Writer
	enc          rs.Encoder
	dataShards   int
	parityShards int
	blockSize    int

	buf     []byte
	n       int
	written uint64
	stripes uint64
	closed  bool
}

// Assert that the Writer struct satisfies the io.WriteCloser interface.
var _ io.WriteCloser = &Writer{}

// NewWriter creates a Writer that writes to the given shards. The number of
// shards must equal dataShards+parityShards. The shard writers are not closed
// by Close.
func NewWriter(shards []io.Writer, dataShards, parityShards, blockSize int) (*Writer, error) {
	if len(shards) != dataShards+parityShards {
		return nil, fmt.Errorf("%w: expected %d shards, got %d",
			ErrShardCountMismatch, dataShards+parityShards, len(shards))
	}
	if blockSize <= 0 {
		return nil, ErrInvalidBlockSize
	}
	enc, err := rs.New(dataShards, parityShards)
	if err != nil {
		return nil, fmt.Errorf("failed to create Reed-Solomon encoder: %w", err)
	}

	return &Writer{
		shards:       shards,
		enc:          enc,
		dataShards:   dataShards,
		parityShards: parityShards,
		blockSize:    blockSize,
		buf:          make([]byte, dataShards*blockSize),
	}, nil
}

// Write buffers p and writes every completed stripe to the shards.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}

	total := 0
	for len(p) > 0 {
		c := copy(w.buf[w.n:], p)
		w.n += c
		total += c
		p = p[c:]
		if w.n == len(w.buf) {
			if err := w.flush(); err != nil {
				return total, err
			}
		}
	}
	w.written += uint64(total)
	return total, nil
}

// Close writes the final, zero padded stripe if there is one.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.n > 0 {
		return w.flush()
	}
	return nil
}

// Written returns the number of data bytes written to w.
func (w *Writer) Written() uint64 {
	return w.written
}

// Stripes returns the number of stripes written to the shards so far.
func (w *Writer) Stripes() uint64 {
	return w.stripes
}

func (w *Writer) flush() error {
	clear(w.buf[w.n:])

	shards, err := w.enc.Split(w.buf)
	if err != nil {
		return fmt.Errorf("failed to split stripe: %w", err)
	}
	if err := w.enc.Encode(shards); err != nil {
		return fmt.Errorf("failed to encode parity: %w", err)
	}
	for i, shard := range shards {
		if _, err := w.shards[i].Write(shard); err != nil {
			return fmt.Errorf("failed to write shard %d: %w", i, err)
		}
	}

	w.n = 0
	w.stripes++
	return nil
}

// ShardSize returns the number of bytes each shard holds once size bytes of
// data have been written and the Writer closed.
func ShardSize(size uint64, dataShards, blockSize int) uint64 {
	stripe := uint64(dataShards) * uint64(blockSize)
	stripes := (size + stripe - 1) / stripe
	return stripes * uint64(blockSize)
}
