package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger builds the application logger for the given environment.
// local writes human-readable text to stdout at debug level; dev and prod
// write JSON to a log file under logPath (dev duplicates to stdout).
func SetupLogger(env, logPath string) *slog.Logger {
	switch env {
	case envDev:
		return slog.New(slog.NewJSONHandler(
			logWriter(logPath, true),
			&slog.HandlerOptions{Level: slog.LevelDebug},
		))
	case envProd:
		return slog.New(slog.NewJSONHandler(
			logWriter(logPath, false),
			&slog.HandlerOptions{Level: slog.LevelInfo},
		))
	default:
		return slog.New(slog.NewTextHandler(
			os.Stdout,
			&slog.HandlerOptions{Level: slog.LevelDebug},
		))
	}
}

func logWriter(logPath string, echo bool) io.Writer {
	file, err := os.OpenFile(
		filepath.Join(logPath, "staffdesk.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0o644,
	)
	if err != nil {
		log.Printf("failed to open log file, falling back to stdout: %v", err)
		return os.Stdout
	}
	if echo {
		return io.MultiWriter(file, os.Stdout)
	}
	return file
}
