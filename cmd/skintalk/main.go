package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/nasermirzaei89/skintalk"
)

func main() {
	ctx := context.Background()

	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.WarnContext(ctx, "failed to load .env file", "error", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: skintalk.GetLogLevelFromEnv()}))
	slog.SetDefault(logger)

	err = rootCmd.ExecuteContext(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to run command", "error", err)
		os.Exit(1)
	}
}
