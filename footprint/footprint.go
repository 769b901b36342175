// Package footprint measures how many bytes a stream occupies once it is
// compressed, framed for seeking, encrypted and split into Reed-Solomon
// shards.
package footprint

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	seekable "github.com/SaveTheRbtz/zstd-seekable-format-go"
	"github.com/klauspost/compress/zstd"

	"github.com/OhanaFS/bytesize"
	"github.com/OhanaFS/bytesize/aes"
	"github.com/OhanaFS/bytesize/reedsolomon"
	"github.com/OhanaFS/bytesize/util"
)

var ErrInvalidOptions = errors.New("invalid footprint options")

// Options specifies the storage layout to measure.
type Options struct {
	// DataShards is the number of shards the compressed data is split into.
	DataShards int
	// ParityShards is the number of parity shards added to the data shards.
	ParityShards int
	// BlockSize is the number of bytes each stripe adds to every shard.
	BlockSize int
	// FrameSize is the amount of input compressed into each seekable frame.
	FrameSize int
	// Level is the zstd compression level.
	Level zstd.EncoderLevel
	// Encrypt seals the compressed stream with AES-GCM before sharding it.
	Encrypt bool
	// ChunkSize is the number of plaintext bytes sealed together.
	ChunkSize int
}

func DefaultOptions() *Options {
	return &Options{
		DataShards:   2,
		ParityShards: 1,
		BlockSize:    4096,
		FrameSize:    128 * 1024,
		Level:        zstd.SpeedDefault,
		Encrypt:      true,
		ChunkSize:    1024,
	}
}

func (o *Options) validate() error {
	switch {
	case o.DataShards < 1:
		return fmt.Errorf("%w: need at least one data shard", ErrInvalidOptions)
	case o.ParityShards < 0:
		return fmt.Errorf("%w: parity shards cannot be negative", ErrInvalidOptions)
	case o.DataShards+o.ParityShards > 256:
		return fmt.Errorf("%w: at most 256 shards are supported", ErrInvalidOptions)
	case o.BlockSize < 1:
		return fmt.Errorf("%w: block size must be positive", ErrInvalidOptions)
	case o.FrameSize < 1:
		return fmt.Errorf("%w: frame size must be positive", ErrInvalidOptions)
	case o.Encrypt && o.ChunkSize < 1:
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidOptions)
	}
	return nil
}

// Estimate holds the number of bytes a stream occupies in each encoding.
type Estimate struct {
	// Raw is the size of the input.
	Raw uint64 `json:"raw" yaml:"raw" msgpack:"raw"`
	// Compressed is the size of the input as a single zstd stream.
	Compressed uint64 `json:"compressed" yaml:"compressed" msgpack:"compressed"`
	// Seekable is the size of the input in the seekable zstd format.
	Seekable uint64 `json:"seekable" yaml:"seekable" msgpack:"seekable"`
	// Encrypted is the size of the compressed stream once sealed with
	// AES-GCM. It is 0 when encryption is disabled.
	Encrypted uint64 `json:"encrypted" yaml:"encrypted" msgpack:"encrypted"`
	// Sharded is the total size of all data and parity shards of the
	// encrypted stream, or of the compressed stream without encryption.
	Sharded uint64 `json:"sharded" yaml:"sharded" msgpack:"sharded"`
	// ShardSize is the size of a single shard.
	ShardSize uint64 `json:"shard_size" yaml:"shard_size" msgpack:"shard_size"`
}

// Ratio returns Compressed/Raw, or 0 for empty input.
func (e *Estimate) Ratio() float64 {
	if e.Raw == 0 {
		return 0
	}
	return float64(e.Compressed) / float64(e.Raw)
}

// Sizes holds the fields of an Estimate formatted for display.
type Sizes struct {
	Raw        string
	Compressed string
	Seekable   string
	Encrypted  string
	Sharded    string
	ShardSize  string
}

// Sizes formats every field of e in the given base.
func (e *Estimate) Sizes(base bytesize.Base) Sizes {
	return Sizes{
		Raw:        bytesize.Format(e.Raw, base),
		Compressed: bytesize.Format(e.Compressed, base),
		Seekable:   bytesize.Format(e.Seekable, base),
		Encrypted:  bytesize.Format(e.Encrypted, base),
		Sharded:    bytesize.Format(e.Sharded, base),
		ShardSize:  bytesize.Format(e.ShardSize, base),
	}
}

// Add accumulates other into e.
func (e *Estimate) Add(other *Estimate) {
	e.Raw += other.Raw
	e.Compressed += other.Compressed
	e.Seekable += other.Seekable
	e.Encrypted += other.Encrypted
	e.Sharded += other.Sharded
	e.ShardSize += other.ShardSize
}

// Measure reads r to the end and returns its footprint. The data is encoded
// but never stored; only the output sizes are kept. Measure checks ctx between
// frames.
func Measure(ctx context.Context, r io.Reader, opts *Options) (*Estimate, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	totalShards := opts.DataShards + opts.ParityShards

	// Prepare the shard counters and the Reed-Solomon writer.
	shards := make([]*util.CountingWriter, totalShards)
	shardWriters := make([]io.Writer, totalShards)
	for i := range shards {
		shards[i] = &util.CountingWriter{}
		shardWriters[i] = shards[i]
	}
	wRS, err := reedsolomon.NewWriter(shardWriters, opts.DataShards, opts.ParityShards, opts.BlockSize)
	if err != nil {
		return nil, err
	}

	// Prepare the AES writer between the compressor and the shards.
	var sink io.Writer = wRS
	encrypted := &util.CountingWriter{}
	var wAES *aes.Writer
	if opts.Encrypt {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}
		wAES, err = aes.NewWriter(io.MultiWriter(encrypted, wRS), key, opts.ChunkSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create AES writer: %w", err)
		}
		sink = wAES
	}

	// Prepare the streaming zstd compressor. Its output is both counted and
	// passed on.
	compressed := &util.CountingWriter{}
	wZstd, err := zstd.NewWriter(io.MultiWriter(compressed, sink), zstd.WithEncoderLevel(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	zstdClosed := false
	defer func() {
		if !zstdClosed {
			wZstd.Close()
		}
	}()

	// Prepare the seekable zstd writer.
	encZstd, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer encZstd.Close()
	seekableOut := &util.CountingWriter{}
	wSeekable, err := seekable.NewWriter(seekableOut, encZstd)
	if err != nil {
		return nil, fmt.Errorf("failed to create seekable writer: %w", err)
	}
	seekableClosed := false
	defer func() {
		if !seekableClosed {
			wSeekable.Close()
		}
	}()

	chunk := make([]byte, opts.FrameSize)
	raw := uint64(0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Read a frame of data
		n, err := io.ReadFull(r, chunk)
		if n > 0 {
			raw += uint64(n)
			if _, err := wZstd.Write(chunk[:n]); err != nil {
				return nil, fmt.Errorf("failed to compress data: %w", err)
			}
			if _, err := wSeekable.Write(chunk[:n]); err != nil {
				return nil, fmt.Errorf("failed to write seekable frame: %w", err)
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data: %w", err)
		}
	}

	// Close the writers
	zstdClosed = true
	if err := wZstd.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush zstd writer: %w", err)
	}
	if wAES != nil {
		if err := wAES.Close(); err != nil {
			return nil, fmt.Errorf("failed to flush AES writer: %w", err)
		}
	}
	if err := wRS.Close(); err != nil {
		return nil, err
	}
	seekableClosed = true
	if err := wSeekable.Close(); err != nil {
		return nil, fmt.Errorf("failed to write seek table: %w", err)
	}

	est := &Estimate{
		Raw:        raw,
		Compressed: compressed.Count(),
		Seekable:   seekableOut.Count(),
		Encrypted:  encrypted.Count(),
		ShardSize:  shards[0].Count(),
	}
	for _, shard := range shards {
		est.Sharded += shard.Count()
	}
	return est, nil
}

// MeasureFile opens the file at path and measures it.
func MeasureFile(ctx context.Context, path string, opts *Options) (*Estimate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	est, err := Measure(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return est, nil
}
