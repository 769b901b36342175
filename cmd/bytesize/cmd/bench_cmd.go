package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/OhanaFS/bytesize"
	"github.com/OhanaFS/bytesize/footprint"
	"github.com/OhanaFS/bytesize/util"
)

var (
	BenchCmd      = flag.NewFlagSet("bench", flag.ExitOnError)
	bDataShards   = BenchCmd.Int("data-shards", 2, "number of data shards")
	bParityShards = BenchCmd.Int("parity-shards", 1, "number of parity shards")
	bThreads      = BenchCmd.Int("threads", 1, "number of threads")
	bSource       = BenchCmd.String("source", "random", "input data: random or zero")
	bInputSize    = sizeValue(10 * 1024 * 1024)
	bBase         = bytesize.Decimal
)

func init() {
	BenchCmd.Var(&bInputSize, "input-size", "size of the input of each thread, e.g. 10MB")
	BenchCmd.Var(&bBase, "base", "unit base: decimal (1000) or binary (1024)")
}

// BenchResult is the outcome of a benchmark run.
type BenchResult struct {
	// Average is the mean time a thread took to measure its input.
	Average time.Duration
	// Speed is the number of input bytes measured per second over all
	// threads.
	Speed uint64
	// Estimate is the footprint measured by the first thread.
	Estimate *footprint.Estimate
}

type benchRun struct {
	duration time.Duration
	estimate *footprint.Estimate
}

// Bench measures the footprint of synthetic data on several threads at once.
func Bench(ctx context.Context, threads int, size uint64, source string, opts *footprint.Options) (*BenchResult, error) {
	if threads < 1 {
		return nil, fmt.Errorf("need at least one thread, got %d", threads)
	}

	p := pool.NewWithResults[benchRun]().WithContext(ctx).WithCancelOnError()
	for i := 0; i < threads; i++ {
		seed := int64(i)
		p.Go(func(ctx context.Context) (benchRun, error) {
			input, err := util.NewSource(source, int64(size), seed)
			if err != nil {
				return benchRun{}, err
			}
			startTime := time.Now()
			est, err := footprint.Measure(ctx, input, opts)
			if err != nil {
				return benchRun{}, err
			}
			return benchRun{duration: time.Since(startTime), estimate: est}, nil
		})
	}
	runs, err := p.Wait()
	if err != nil {
		return nil, err
	}

	// Report the results
	var totalDuration time.Duration
	for _, run := range runs {
		totalDuration += run.duration
	}
	averageDuration := totalDuration / time.Duration(len(runs))
	if averageDuration <= 0 {
		averageDuration = time.Nanosecond
	}

	// Calculate speed
	speed := uint64(float64(size) * float64(len(runs)) / averageDuration.Seconds())
	return &BenchResult{Average: averageDuration, Speed: speed, Estimate: runs[0].estimate}, nil
}

// RunBenchCmd runs the benchmark with the parsed flags.
func RunBenchCmd(ctx context.Context) int {
	if *bThreads < 1 {
		log.Error().Int("threads", *bThreads).Msg("You must use at least one thread.")
		return 1
	}

	log.Info().
		Int("data_shards", *bDataShards).
		Int("parity_shards", *bParityShards).
		Int("threads", *bThreads).
		Str("input_size", bytesize.Format(uint64(bInputSize), bBase)).
		Str("source", *bSource).
		Msg("Running benchmark")

	opts := footprint.DefaultOptions()
	opts.DataShards = *bDataShards
	opts.ParityShards = *bParityShards

	result, err := Bench(ctx, *bThreads, uint64(bInputSize), *bSource, opts)
	if err != nil {
		log.Error().Err(err).Msg("Error running benchmark")
		return 1
	}

	sizes := result.Estimate.Sizes(bBase)
	log.Info().
		Dur("average", result.Average).
		Str("speed", bytesize.Format(result.Speed, bBase)+"/s").
		Str("compressed", sizes.Compressed).
		Str("sharded", sizes.Sharded).
		Msg("Benchmark finished")
	return 0
}
