// Package aes encrypts a stream in independently sealed AES-GCM chunks.
package aes

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"io"
)

// Overhead is the number of bytes AES-GCM adds to every chunk.
const Overhead = 16

var (
	ErrInvalidKeyLength = errors.New("key must be 16, 24, or 32 bytes long")
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
	ErrWriterClosed     = errors.New("writer is closed")
)

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, ErrInvalidKeyLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// nonce derives the nonce of a chunk from its index.
func nonce(gcm cipher.AEAD, index uint64) []byte {
	n := make([]byte, gcm.NonceSize())
	binary.BigEndian.PutUint64(n[len(n)-8:], index)
	return n
}

// CiphertextSize returns the number of bytes a Writer with the given chunk
// size produces for size bytes of plaintext.
func CiphertextSize(size uint64, chunkSize int) uint64 {
	chunks := (size + uint64(chunkSize) - 1) / uint64(chunkSize)
	return size + chunks*Overhead
}

// Writer encrypts data written to it in chunks of chunkSize bytes. Every chunk
// but the last one is exactly chunkSize+Overhead bytes long once encrypted.
type Writer struct {
	ds        io.Writer
	gcm       cipher.AEAD
	chunkSize int

	buf     []byte
	index   uint64
	read    uint64
	written uint64
	closed  bool
}

// Assert that the Writer struct satisfies the io.WriteCloser interface.
var _ io.WriteCloser = &Writer{}

// NewWriter creates a new Writer. Close must be called to flush the final
// chunk; it does not close ds.
func NewWriter(ds io.Writer, key []byte, chunkSize int) (*Writer, error) {
	if chunkSize < 1 {
		return nil, ErrInvalidChunkSize
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return &Writer{ds: ds, gcm: gcm, chunkSize: chunkSize, buf: make([]byte, 0, chunkSize)}, nil
}

// Write buffers p and encrypts every completed chunk.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}

	total := 0
	for len(p) > 0 {
		c := min(len(p), w.chunkSize-len(w.buf))
		w.buf = append(w.buf, p[:c]...)
		p = p[c:]
		total += c
		w.read += uint64(c)
		if len(w.buf) == w.chunkSize {
			if err := w.seal(); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func (w *Writer) seal() error {
	ciphertext := w.gcm.Seal(nil, nonce(w.gcm, w.index), w.buf, nil)
	n, err := w.ds.Write(ciphertext)
	w.written += uint64(n)
	if err != nil {
		return err
	}
	w.index++
	w.buf = w.buf[:0]
	return nil
}

// Close encrypts the remaining buffered data as a final, shorter chunk.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if len(w.buf) > 0 {
		return w.seal()
	}
	return nil
}

// Read returns the number of plaintext bytes written to w.
func (w *Writer) Read() uint64 {
	return w.read
}

// Written returns the number of ciphertext bytes written to the underlying
// writer.
func (w *Writer) Written() uint64 {
	return w.written
}

// Reader decrypts a stream produced by a Writer with the same key and chunk
// size.
type Reader struct {
	ds        io.Reader
	gcm       cipher.AEAD
	chunkSize int

	chunk   []byte
	pending []byte
	index   uint64
	err     error
}

// Assert that the Reader struct satisfies the io.Reader interface.
var _ io.Reader = &Reader{}

func NewReader(ds io.Reader, key []byte, chunkSize int) (*Reader, error) {
	if chunkSize < 1 {
		return nil, ErrInvalidChunkSize
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return &Reader{ds: ds, gcm: gcm, chunkSize: chunkSize, chunk: make([]byte, chunkSize+Overhead)}, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.err != nil {
			return 0, r.err
		}

		n, err := io.ReadFull(r.ds, r.chunk)
		switch {
		case err == io.EOF:
			r.err = io.EOF
			continue
		case err == io.ErrUnexpectedEOF:
			// A short chunk is the last one.
			r.err = io.EOF
		case err != nil:
			return 0, err
		}

		plaintext, err := r.gcm.Open(nil, nonce(r.gcm, r.index), r.chunk[:n], nil)
		if err != nil {
			return 0, err
		}
		r.index++
		r.pending = plaintext
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
