package reedsolomon

import (
	"errors"
	"fmt"
	"io"

	rs "github.com/klauspost/reedsolomon"
)

// Join reads the shards produced by a Writer and writes the first size bytes
// of the original data to dst. Missing shards may be passed as nil; up to
// parityShards of them are reconstructed. A shard that fails to read is
// treated as missing.
func Join(dst io.Writer, shards []io.Reader, dataShards, parityShards, blockSize int, size uint64) error {
	if len(shards) != dataShards+parityShards {
		return fmt.Errorf("%w: expected %d shards, got %d",
			ErrShardCountMismatch, dataShards+parityShards, len(shards))
	}
	if blockSize <= 0 {
		return ErrInvalidBlockSize
	}
	enc, err := rs.New(dataShards, parityShards)
	if err != nil {
		return fmt.Errorf("failed to create Reed-Solomon encoder: %w", err)
	}

	blocks := make([][]byte, len(shards))
	for i := range blocks {
		blocks[i] = make([]byte, blockSize)
	}
	failed := make([]bool, len(shards))
	stripeSize := uint64(dataShards) * uint64(blockSize)

	for remaining := size; remaining > 0; {
		stripe := make([][]byte, len(shards))
		present := 0
		for i, shard := range shards {
			if shard == nil || failed[i] {
				continue
			}
			if _, err := io.ReadFull(shard, blocks[i]); err != nil {
				failed[i] = true
				continue
			}
			stripe[i] = blocks[i]
			present++
		}

		if present == len(shards) {
			ok, err := enc.Verify(stripe)
			if err != nil {
				return fmt.Errorf("failed to verify stripe: %w", err)
			}
			if !ok {
				return ErrCorruptionDetected
			}
		} else if err := enc.ReconstructData(stripe); err != nil {
			if errors.Is(err, rs.ErrTooFewShards) {
				return fmt.Errorf("%w: %d of %d shards readable", err, present, len(shards))
			}
			return fmt.Errorf("failed to reconstruct stripe: %w", err)
		}

		n := min(remaining, stripeSize)
		if err := enc.Join(dst, stripe, int(n)); err != nil {
			return fmt.Errorf("failed to join stripe: %w", err)
		}
		remaining -= n
	}

	return nil
}
