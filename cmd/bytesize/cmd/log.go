package cmd

import (
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	LogTimeFormat = "2006-01-02T15:04:05.000"
)

// ConsoleWriter returns a console log writer for f. Colors are only used when
// f is a terminal.
func ConsoleWriter(f *os.File) zerolog.ConsoleWriter {
	var out io.Writer = f
	if runtime.GOOS == "windows" {
		out = colorable.NewColorable(f)
	}
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return zerolog.ConsoleWriter{Out: out, TimeFormat: LogTimeFormat, NoColor: !tty}
}

// SetupLogging sends the global logger to stderr, which keeps stdout free for
// reports.
func SetupLogging(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(ConsoleWriter(os.Stderr))
}
