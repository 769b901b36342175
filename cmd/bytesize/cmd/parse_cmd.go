package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/OhanaFS/bytesize"
)

var (
	ParseCmd  = flag.NewFlagSet("parse", flag.ExitOnError)
	parseBase = bytesize.Decimal
)

func init() {
	ParseCmd.Var(&parseBase, "base", "unit base: decimal (1000) or binary (1024)")
}

// RunParseCmd prints the byte count of every human-readable size given as an
// argument.
func RunParseCmd(w io.Writer) int {
	if ParseCmd.NArg() == 0 {
		log.Error().Msg("You must specify at least one size.")
		return 1
	}

	status := 0
	for _, arg := range ParseCmd.Args() {
		n, err := bytesize.Parse(arg, parseBase)
		if err != nil {
			log.Error().Err(err).Str("arg", arg).Msg("Invalid size")
			status = 1
			continue
		}
		fmt.Fprintf(w, "%s => %d bytes\n", arg, n)
	}
	return status
}
