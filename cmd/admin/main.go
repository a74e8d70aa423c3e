package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Harsh00198/Auraluxe-Music/internal/logging"
)

func main() {
	logger := logging.New(os.Getenv("AURALUXE_SERVER_LOG_LEVEL"), os.Stderr)
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "auraluxe-admin",
		Usage: "Operator tasks for the Auraluxe database",
		Commands: []*cli.Command{
			createAdminCommand(),
			seedCommand(),
			pruneCoversCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Error("admin command failed", "error", err)
		os.Exit(1)
	}
}
