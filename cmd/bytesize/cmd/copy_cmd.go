package cmd

import (
	"flag"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/OhanaFS/bytesize"
	"github.com/OhanaFS/bytesize/util"
	"github.com/OhanaFS/bytesize/util/debug"
)

var (
	CopyCmd    = flag.NewFlagSet("copy", flag.ExitOnError)
	cpInput    = CopyCmd.String("input", "", "path to the input file")
	cpOutput   = CopyCmd.String("output", "", "path to the output file")
	cpTrace    = CopyCmd.Bool("trace", false, "log every write to the output file")
	cpProgress = CopyCmd.Bool("progress", true, "draw progress to stderr")
	cpBase     = bytesize.Decimal
)

func init() {
	CopyCmd.Var(&cpBase, "base", "unit base: decimal (1000) or binary (1024)")
}

// RunCopyCmd copies a file while drawing its progress.
func RunCopyCmd() int {
	if *cpInput == "" || *cpOutput == "" {
		log.Error().Msg("You must specify both -input and -output.")
		return 1
	}

	// Open a file for reading
	file, err := os.Open(*cpInput)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open input file")
		return 1
	}
	defer file.Close()
	stat, err := file.Stat()
	if err != nil {
		log.Error().Err(err).Msg("Failed to stat input file")
		return 1
	}

	// Open output file for writing
	outputFile, err := os.Create(*cpOutput)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open output file")
		return 1
	}
	var output io.WriteCloser = outputFile
	if *cpTrace {
		output = debug.NewTrace[io.WriteCloser](outputFile, *cpOutput, log.Logger)
	}

	var input io.Reader = file
	if *cpProgress {
		input = util.NewProgressReader(file, stat.Size(), os.Stderr, cpBase)
	}

	log.Info().
		Str("input", *cpInput).
		Str("output", *cpOutput).
		Str("size", bytesize.Format(uint64(stat.Size()), cpBase)).
		Msg("Copying file")
	n, err := io.Copy(output, input)
	if err != nil {
		output.Close()
		log.Error().Err(err).Msg("Failed to copy file")
		return 1
	}
	if err := output.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close output file")
		return 1
	}

	log.Info().Str("copied", bytesize.Format(uint64(n), cpBase)).Msg("Done.")
	return 0
}
