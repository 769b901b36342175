package footprint_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OhanaFS/bytesize"
	"github.com/OhanaFS/bytesize/aes"
	"github.com/OhanaFS/bytesize/footprint"
	"github.com/OhanaFS/bytesize/reedsolomon"
	"github.com/OhanaFS/bytesize/util"
)

func TestMeasureZeros(t *testing.T) {
	assert := assert.New(t)

	size := int64(1 << 20)
	est, err := footprint.Measure(context.Background(), &util.ZeroReader{Size: size}, nil)
	require.NoError(t, err)
	t.Logf("Estimate: %+v", est)

	assert.Equal(uint64(size), est.Raw)
	assert.Greater(est.Compressed, uint64(0))
	assert.Less(est.Compressed, est.Raw/100)
	assert.Greater(est.Seekable, est.Compressed)
	assert.Less(est.Ratio(), 0.01)

	opts := footprint.DefaultOptions()
	assert.Equal(aes.CiphertextSize(est.Compressed, opts.ChunkSize), est.Encrypted)
	assert.Equal(reedsolomon.ShardSize(est.Encrypted, opts.DataShards, opts.BlockSize), est.ShardSize)
	assert.Equal(est.ShardSize*uint64(opts.DataShards+opts.ParityShards), est.Sharded)
}

func TestMeasureRandom(t *testing.T) {
	assert := assert.New(t)

	opts := footprint.DefaultOptions()
	opts.DataShards = 4
	opts.ParityShards = 2
	opts.BlockSize = 1024

	size := int64(300 * 1000)
	est, err := footprint.Measure(context.Background(), util.NewRandomReader(size, 7), opts)
	require.NoError(t, err)

	// Random data does not compress, so the zstd framing only adds bytes.
	assert.Equal(uint64(size), est.Raw)
	assert.GreaterOrEqual(est.Compressed, est.Raw)
	assert.GreaterOrEqual(est.Ratio(), 1.0)

	// Six shards of a quarter of the data each: half again on top.
	assert.Greater(est.Encrypted, est.Compressed)
	assert.Equal(reedsolomon.ShardSize(est.Encrypted, 4, 1024), est.ShardSize)
	assert.Equal(est.ShardSize*6, est.Sharded)
	assert.Greater(est.Sharded, est.Encrypted*3/2-1)
}

func TestMeasureWithoutEncryption(t *testing.T) {
	assert := assert.New(t)

	opts := footprint.DefaultOptions()
	opts.Encrypt = false
	opts.ChunkSize = 0

	est, err := footprint.Measure(context.Background(), util.NewRandomReader(50000, 3), opts)
	require.NoError(t, err)
	assert.Equal(uint64(0), est.Encrypted)
	assert.Equal(reedsolomon.ShardSize(est.Compressed, opts.DataShards, opts.BlockSize), est.ShardSize)
	assert.Equal(est.ShardSize*3, est.Sharded)
}

func TestMeasureEmpty(t *testing.T) {
	assert := assert.New(t)

	est, err := footprint.Measure(context.Background(), bytes.NewReader(nil), nil)
	require.NoError(t, err)
	assert.Equal(uint64(0), est.Raw)
	assert.Equal(0.0, est.Ratio())
	assert.Equal("0 bytes", est.Sizes(bytesize.Decimal).Raw)
}

func TestMeasureCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := footprint.Measure(ctx, &util.ZeroReader{Size: 1024}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMeasureReadError(t *testing.T) {
	errBroken := errors.New("broken disk")

	// The first frame is encoded before the read fails.
	r := io.MultiReader(&util.ZeroReader{Size: 200 * 1024}, iotest.ErrReader(errBroken))
	est, err := footprint.Measure(context.Background(), r, nil)
	assert.ErrorIs(t, err, errBroken)
	assert.Nil(t, est)
}

func TestMeasureInvalidOptions(t *testing.T) {
	assert := assert.New(t)

	for _, mutate := range []func(*footprint.Options){
		func(o *footprint.Options) { o.DataShards = 0 },
		func(o *footprint.Options) { o.ParityShards = -1 },
		func(o *footprint.Options) { o.DataShards = 200; o.ParityShards = 100 },
		func(o *footprint.Options) { o.BlockSize = 0 },
		func(o *footprint.Options) { o.FrameSize = 0 },
		func(o *footprint.Options) { o.ChunkSize = 0 },
	} {
		opts := footprint.DefaultOptions()
		mutate(opts)
		_, err := footprint.Measure(context.Background(), &util.ZeroReader{Size: 1}, opts)
		assert.ErrorIs(err, footprint.ErrInvalidOptions)
	}
}

func TestMeasureFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("hello world "), 1000), 0o644))

	est, err := footprint.MeasureFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(uint64(12000), est.Raw)
	assert.Equal("12.00 KB", est.Sizes(bytesize.Decimal).Raw)
	assert.Equal("11.72 KB", est.Sizes(bytesize.Binary).Raw)

	_, err = footprint.MeasureFile(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	assert.ErrorIs(err, os.ErrNotExist)
}

func TestEstimateAdd(t *testing.T) {
	total := &footprint.Estimate{}
	total.Add(&footprint.Estimate{Raw: 1000, Compressed: 10, Seekable: 20, Encrypted: 26, Sharded: 30, ShardSize: 15})
	total.Add(&footprint.Estimate{Raw: 24, Compressed: 1, Seekable: 2, Encrypted: 17, Sharded: 3, ShardSize: 1})

	assert.Equal(t, footprint.Estimate{Raw: 1024, Compressed: 11, Seekable: 22, Encrypted: 43, Sharded: 33, ShardSize: 16}, *total)
	assert.Equal(t, "1.00 KB", total.Sizes(bytesize.Binary).Raw)
}
