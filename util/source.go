package util

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
)

var ErrUnknownSource = errors.New("unknown source")

// RandomReader is a io.Reader that returns Size pseudo-random bytes. It uses
// math/rand and should not be used for security purposes. Random data is
// effectively incompressible.
type RandomReader struct {
	// Size is the number of bytes left to read.
	Size int64

	rng *rand.Rand
}

// Assert that RandomReader implements the io.Reader interface.
var _ io.Reader = &RandomReader{}

// NewRandomReader creates a RandomReader that produces the same stream for the
// same seed.
func NewRandomReader(size int64, seed int64) *RandomReader {
	return &RandomReader{Size: size, rng: rand.New(rand.NewSource(seed))}
}

// Read implements io.Reader
func (r *RandomReader) Read(p []byte) (n int, err error) {
	if r.Size <= 0 {
		return 0, io.EOF
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(1))
	}
	n = len(p)
	if r.Size < int64(n) {
		n = int(r.Size)
	}
	r.Size -= int64(n)
	return r.rng.Read(p[:n])
}

// ZeroReader is an io.Reader that returns Size null bytes. Zeros compress
// almost entirely away.
type ZeroReader struct {
	// Size is the number of bytes left to read.
	Size int64
}

// Assert that ZeroReader implements the io.Reader interface.
var _ io.Reader = &ZeroReader{}

// Read implements io.Reader
func (z *ZeroReader) Read(p []byte) (n int, err error) {
	if z.Size <= 0 {
		return 0, io.EOF
	}
	n = len(p)
	if z.Size < int64(n) {
		n = int(z.Size)
	}
	clear(p[:n])
	z.Size -= int64(n)
	return n, nil
}

// NewSource returns a synthetic input of the given kind, either "random" or
// "zero".
func NewSource(kind string, size int64, seed int64) (io.Reader, error) {
	switch kind {
	case "random":
		return NewRandomReader(size, seed), nil
	case "zero":
		return &ZeroReader{Size: size}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
}
