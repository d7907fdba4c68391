package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/atolz-bro/usermanagementservice/internal/flagx"
	"github.com/atolz-bro/usermanagementservice/internal/logging"
	"github.com/atolz-bro/usermanagementservice/internal/server"
	"github.com/atolz-bro/usermanagementservice/internal/server/config"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	args := os.Args[1:]

	// -version разбирается отдельно, остальные флаги читает config
	showVersion := false
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-version", "--version"}))

	if showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat, "usermanagementservice")

	app := server.NewApp(cfg, logger, Version)
	if err := app.Run(context.Background()); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("User Management Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
