package cmd

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/OhanaFS/bytesize"
)

var (
	FormatCmd = flag.NewFlagSet("format", flag.ExitOnError)
	fmtBase   = bytesize.Decimal
)

func init() {
	FormatCmd.Var(&fmtBase, "base", "unit base: decimal (1000) or binary (1024)")
}

// RunFormatCmd prints every byte count given as an argument in human-readable
// form.
func RunFormatCmd(w io.Writer) int {
	if FormatCmd.NArg() == 0 {
		log.Error().Msg("You must specify at least one byte count.")
		return 1
	}

	status := 0
	for _, arg := range FormatCmd.Args() {
		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			log.Error().Err(err).Str("arg", arg).Msg("Invalid byte count")
			status = 1
			continue
		}
		fmt.Fprintf(w, "%d bytes => %s\n", n, bytesize.Format(n, fmtBase))
	}
	return status
}
