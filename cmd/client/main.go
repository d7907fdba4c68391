package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/atolz-bro/usermanagementservice/internal/client/api"
	"github.com/atolz-bro/usermanagementservice/internal/client/auth"
	"github.com/atolz-bro/usermanagementservice/internal/client/cli"
	"github.com/atolz-bro/usermanagementservice/internal/client/iocli"
	"github.com/atolz-bro/usermanagementservice/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "usermgmt-client.db", "Path to local session database")
	flag.Usage = func() { cli.PrintUsage(os.Stderr) }

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	ctx := context.Background()

	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}

	apiClient := api.NewClient(*serverURL)
	session := auth.NewService(apiClient, boltStorage, *serverURL)
	c := cli.New(iocli.NewStdio(), apiClient, session)

	runErr := c.Run(ctx, args[0], args[1:])

	if err := boltStorage.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("User Management Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
