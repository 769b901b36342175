package cmd

import (
	"flag"
	"strconv"

	"github.com/OhanaFS/bytesize"
	"github.com/OhanaFS/bytesize/config"
)

var (
	GlobalFlags = flag.NewFlagSet("bytesize", flag.ExitOnError)
	configPath  = GlobalFlags.String("config", "", "path to a YAML config file (default $BYTESIZE_CONFIG)")
)

// LoadConfig parses the global flags at the start of args, up to the
// subcommand name, and loads the configuration they name. The remaining
// arguments are returned.
func LoadConfig(args []string) (*config.Config, []string, error) {
	*configPath = ""
	if err := GlobalFlags.Parse(args); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, GlobalFlags.Args(), nil
}

// sizeValue is a flag.Value holding a byte count that may be given in
// human-readable form, e.g. "10MB". Units are binary.
type sizeValue uint64

func (s *sizeValue) String() string {
	return strconv.FormatUint(uint64(*s), 10)
}

func (s *sizeValue) Set(v string) error {
	n, err := bytesize.Parse(v, bytesize.Binary)
	if err != nil {
		return err
	}
	*s = sizeValue(n)
	return nil
}

// ApplyConfig makes the loaded configuration the default for every command.
// Flags given on the command line still take precedence.
func ApplyConfig(cfg *config.Config) {
	fmtBase = cfg.Base
	parseBase = cfg.Base
	duBase = cfg.Base
	duOutput = cfg.Output
	*duWorkers = cfg.Workers
	cpBase = cfg.Base
	bBase = cfg.Base
}
