package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/OhanaFS/bytesize/cmd/bytesize/cmd"
)

var subcommands = map[string]*flag.FlagSet{
	cmd.FormatCmd.Name(): cmd.FormatCmd,
	cmd.ParseCmd.Name():  cmd.ParseCmd,
	cmd.DuCmd.Name():     cmd.DuCmd,
	cmd.CopyCmd.Name():   cmd.CopyCmd,
	cmd.BenchCmd.Name():  cmd.BenchCmd,
}

func run() int {
	cmd.SetupLogging(zerolog.InfoLevel)

	cfg, args, err := cmd.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	level, _ := cfg.Level()
	cmd.SetupLogging(level)
	cmd.ApplyConfig(cfg)

	subcommandNames := []string{}
	for name := range subcommands {
		subcommandNames = append(subcommandNames, name)
	}
	sort.Strings(subcommandNames)

	if len(args) < 1 {
		log.Fatal().Msgf("You must specify a subcommand. Valid subcommands are: %s", strings.Join(subcommandNames, ", "))
	}

	command := subcommands[args[0]]
	if command == nil {
		log.Fatal().Msgf("unknown subcommand '%s'. Available commands are: %s", args[0], strings.Join(subcommandNames, ", "))
	}

	command.Parse(args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch command.Name() {
	case cmd.FormatCmd.Name():
		return cmd.RunFormatCmd(os.Stdout)
	case cmd.ParseCmd.Name():
		return cmd.RunParseCmd(os.Stdout)
	case cmd.DuCmd.Name():
		return cmd.RunDuCmd(ctx, os.Stdout)
	case cmd.CopyCmd.Name():
		return cmd.RunCopyCmd()
	case cmd.BenchCmd.Name():
		return cmd.RunBenchCmd(ctx)
	}

	return 0
}

func main() {
	os.Exit(run())
}
