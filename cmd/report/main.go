package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"

	"ecommerce-dashboard/internal/cli"
	"ecommerce-dashboard/internal/config"
	"ecommerce-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(observability.NewLogger(cfg.Logger, os.Stderr))

	opts := &cli.Options{
		Transactions: cfg.Data.TransactionsCSV,
		Geolocations: cfg.Data.GeolocationCSV,
		Currency:     cfg.Display.Currency,
		Out:          os.Stdout,
	}
	opts.SetFlags(flag.CommandLine)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cli.Commands(opts) {
		commander.Register(c, "reports")
	}

	flag.Parse()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	status := commander.Execute(ctx)
	cancel()
	os.Exit(int(status))
}
