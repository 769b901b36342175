package cmd

import (
	"context"
	"flag"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/OhanaFS/bytesize"
	"github.com/OhanaFS/bytesize/footprint"
	"github.com/OhanaFS/bytesize/report"
)

var (
	DuCmd          = flag.NewFlagSet("du", flag.ExitOnError)
	duBase         = bytesize.Decimal
	duOutput       = report.Table
	duBlockSize    = sizeValue(4096)
	duFootprint    = DuCmd.Bool("footprint", false, "measure the compressed and sharded size of each file")
	duWorkers      = DuCmd.Int("workers", runtime.NumCPU(), "number of files measured at once")
	duDataShards   = DuCmd.Int("data-shards", 2, "number of data shards")
	duParityShards = DuCmd.Int("parity-shards", 1, "number of parity shards")
	duTotal        = DuCmd.Bool("total", true, "append a total row")
)

func init() {
	DuCmd.Var(&duBase, "base", "unit base: decimal (1000) or binary (1024)")
	DuCmd.Var(&duOutput, "output", "output format: text, json, yaml, table or msgpack")
	DuCmd.Var(&duBlockSize, "block-size", "Reed-Solomon block size, e.g. 4KB")
}

type fileInfo struct {
	path string
	size uint64
}

// collectFiles lists the regular files under each path.
func collectFiles(paths []string) ([]fileInfo, error) {
	var files []fileInfo
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			files = append(files, fileInfo{path: path, size: uint64(info.Size())})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// RunDuCmd reports the size of every file under the given paths.
func RunDuCmd(ctx context.Context, w io.Writer) int {
	if *duWorkers < 1 {
		log.Error().Int("workers", *duWorkers).Msg("You must use at least one worker.")
		return 1
	}

	paths := DuCmd.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := collectFiles(paths)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list files")
		return 1
	}
	log.Debug().Int("files", len(files)).Strs("paths", paths).Msg("Collected files")

	var entries []report.Entry
	if *duFootprint {
		opts := footprint.DefaultOptions()
		opts.DataShards = *duDataShards
		opts.ParityShards = *duParityShards
		opts.BlockSize = int(duBlockSize)

		p := pool.NewWithResults[report.Entry]().
			WithContext(ctx).
			WithMaxGoroutines(*duWorkers).
			WithCancelOnError()
		for _, f := range files {
			f := f
			p.Go(func(ctx context.Context) (report.Entry, error) {
				est, err := footprint.MeasureFile(ctx, f.path, opts)
				if err != nil {
					return report.Entry{}, err
				}
				log.Debug().
					Str("path", f.path).
					Str("size", bytesize.Format(est.Raw, duBase)).
					Float64("ratio", est.Ratio()).
					Msg("Measured file")
				return report.NewEntry(f.path, est.Raw, duBase).WithEstimate(est), nil
			})
		}
		entries, err = p.Wait()
		if err != nil {
			log.Error().Err(err).Msg("Failed to measure files")
			return 1
		}
	} else {
		for _, f := range files {
			entries = append(entries, report.NewEntry(f.path, f.size, duBase))
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	if *duTotal {
		entries = append(entries, report.Total(entries, duBase))
	}

	out, err := report.Format(entries, duOutput)
	if err != nil {
		log.Error().Err(err).Msg("Failed to format report")
		return 1
	}
	if _, err := w.Write(out); err != nil {
		log.Error().Err(err).Msg("Failed to write report")
		return 1
	}
	return 0
}
