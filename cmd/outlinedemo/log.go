package main

import (
	"log/slog"
	"os"
)

func slogDebug() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
