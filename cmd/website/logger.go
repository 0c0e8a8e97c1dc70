package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/adampresley/catgallery/cmd/website/internal/configuration"
)

func setupLogger(config *configuration.Config, version string) {
	level := slog.LevelInfo

	switch strings.ToLower(config.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	options := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, options)

	if version == "development" {
		handler = slog.NewTextHandler(os.Stderr, options)
	}

	slog.SetDefault(slog.New(handler).With("version", version))
}
