package infra

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LoggerOptions controls level, output format and the optional mirror file
type LoggerOptions struct {
	Level   string
	Format  string
	LogFile string
}

func SetupLogger(opts LoggerOptions) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(opts.Level) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var w io.Writer = os.Stdout
	if opts.LogFile != "" {
		if logFile, err := os.OpenFile(opts.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			w = io.MultiWriter(os.Stdout, logFile)
		}
	}

	var handler slog.Handler
	hopts := &slog.HandlerOptions{Level: level}

	if strings.ToUpper(opts.Format) == "JSON" {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}

	return slog.New(handler)
}
