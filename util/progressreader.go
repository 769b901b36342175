package util

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/ioprogress"

	"github.com/OhanaFS/bytesize"
)

// ProgressReader wraps an io.Reader and draws the number of bytes read, the
// expected total and the current speed to a terminal.
type ProgressReader struct {
	reader *ioprogress.Reader
	base   bytesize.Base

	mu           sync.Mutex
	pos          int64
	snapshotTime time.Time
	snapshotPos  int64
	speed        int64
}

// Assert that the ProgressReader struct satisfies the io.Reader interface.
var _ io.Reader = &ProgressReader{}

// NewProgressReader creates a new ProgressReader drawing to w. A max of 0
// means the total size is unknown.
func NewProgressReader(reader io.Reader, max int64, w io.Writer, base bytesize.Base) *ProgressReader {
	r := &ProgressReader{base: base, snapshotTime: time.Now()}
	r.reader = &ioprogress.Reader{
		Reader:       reader,
		Size:         max,
		DrawFunc:     ioprogress.DrawTerminalf(w, r.Text),
		DrawInterval: 250 * time.Millisecond,
	}
	return r
}

// Read implements io.Reader
func (r *ProgressReader) Read(p []byte) (n int, err error) {
	r.mu.Lock()
	// Update snapshot if it's been more than 1 second since the last one
	if time.Since(r.snapshotTime) > time.Second {
		r.speed = int64(float64(r.pos-r.snapshotPos) / time.Since(r.snapshotTime).Seconds())
		r.snapshotPos = r.pos
		r.snapshotTime = time.Now()
	}
	r.mu.Unlock()

	n, err = r.reader.Read(p)

	r.mu.Lock()
	r.pos += int64(n)
	r.mu.Unlock()
	return n, err
}

// Pos returns the number of bytes read so far.
func (r *ProgressReader) Pos() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

// Text renders a progress line. It is the DrawTextFormatFunc used for the
// terminal.
func (r *ProgressReader) Text(progress, total int64) string {
	r.mu.Lock()
	speed := r.speed
	r.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(bytesize.Format(uint64(max(progress, 0)), r.base))
	if total > 0 {
		fmt.Fprintf(&sb, " / %s", bytesize.Format(uint64(total), r.base))
	}
	if speed > 0 {
		fmt.Fprintf(&sb, " (%s/s)", bytesize.Format(uint64(speed), r.base))
	}
	return sb.String()
}
