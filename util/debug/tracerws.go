package debug

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/OhanaFS/bytesize"
)

// Trace wraps a reader, writer, seeker or closer and logs every call made to
// it at debug level, along with the running byte totals.
type Trace[T any] struct {
	inner  T
	name   string
	logger zerolog.Logger

	read    uint64
	written uint64
}

// Assert that the Trace struct satisfies the io.ReadWriteSeeker interface.
var _ io.ReadWriteSeeker = &Trace[io.ReadWriteSeeker]{}
var _ io.Closer = &Trace[io.Closer]{}

func NewTrace[T any](inner T, name string, logger zerolog.Logger) *Trace[T] {
	return &Trace[T]{inner: inner, name: name, logger: logger}
}

// Inner returns the wrapped value.
func (t *Trace[T]) Inner() T {
	return t.inner
}

// Totals returns the number of bytes read and written through t.
func (t *Trace[T]) Totals() (read, written uint64) {
	return t.read, t.written
}

func (t *Trace[T]) Read(p []byte) (n int, err error) {
	r, ok := any(t.inner).(io.Reader)
	if !ok {
		return 0, fmt.Errorf("%s is not a io.Reader", t.name)
	}
	n, err = r.Read(p)
	t.read += uint64(n)
	t.logger.Debug().
		Str("target", t.name).
		Int("requested", len(p)).
		Int("n", n).
		Str("total", bytesize.FormatBinary(t.read)).
		AnErr("err", err).
		Msg("read")
	return n, err
}

func (t *Trace[T]) Write(p []byte) (n int, err error) {
	w, ok := any(t.inner).(io.Writer)
	if !ok {
		return 0, fmt.Errorf("%s is not a io.Writer", t.name)
	}
	n, err = w.Write(p)
	t.written += uint64(n)
	t.logger.Debug().
		Str("target", t.name).
		Int("n", n).
		Str("total", bytesize.FormatBinary(t.written)).
		AnErr("err", err).
		Msg("write")
	return n, err
}

func (t *Trace[T]) Seek(offset int64, whence int) (int64, error) {
	s, ok := any(t.inner).(io.Seeker)
	if !ok {
		return 0, fmt.Errorf("%s is not a io.Seeker", t.name)
	}
	t.logger.Debug().Str("target", t.name).Int64("offset", offset).Int("whence", whence).Msg("seek")
	return s.Seek(offset, whence)
}

func (t *Trace[T]) Close() error {
	c, ok := any(t.inner).(io.Closer)
	if !ok {
		return fmt.Errorf("%s is not a io.Closer", t.name)
	}
	t.logger.Debug().
		Str("target", t.name).
		Uint64("read", t.read).
		Uint64("written", t.written).
		Msg("close")
	return c.Close()
}
