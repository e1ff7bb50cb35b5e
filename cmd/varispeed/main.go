package main

import (
	"fmt"
	"log/slog"
	"os"

	"varispeed.click/internal/cli"
)

func main() {
	// Baseline logging until the config-driven handler takes over.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "varispeed:", err)
		os.Exit(1)
	}
}
