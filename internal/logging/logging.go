package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls where and how the index's debug log ends up on disk.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// FilePath is the log file a running index writes to; empty disables
	// file logging entirely (slog output still reaches stderr if
	// WriteToStderr is set). `vecidx logs` reads this same path back.
	FilePath string
	// MaxSizeMB is the maximum size in MB before rotation (default: 10).
	MaxSizeMB int
	// MaxFiles is the maximum number of rotated files to keep (default: 5).
	MaxFiles int
	// WriteToStderr whether to also write to stderr (default: true).
	WriteToStderr bool
}

// DefaultConfig points at DefaultLogPath() under info level. cmd/vecidx
// does not use it directly: without --debug it sets up no logging at all,
// and with --debug it uses DebugConfig.
func DefaultConfig() Config {
	return Config{
		Level:         "info",
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: true,
	}
}

// DebugConfig is DefaultConfig with Level raised to debug, what cmd/vecidx
// wires up when --debug is passed.
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	return cfg
}

// Setup opens cfg.FilePath as a RotatingWriter and wires it into a JSON
// slog.Logger, returning a cleanup function the caller must run (typically
// deferred from a command's PersistentPostRunE) to flush and close it. An
// empty cfg.FilePath opens no file: the logger writes to stderr if
// WriteToStderr is set and discards its output otherwise.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	if cfg.FilePath == "" {
		var output io.Writer = io.Discard
		if cfg.WriteToStderr {
			output = os.Stderr
		}
		handler := slog.NewJSONHandler(output, &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
		return slog.New(handler), func() {}, nil
	}

	if err := EnsureLogDir(); err != nil {
		return nil, nil, err
	}

	writer, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, err
	}

	var output io.Writer = writer
	if cfg.WriteToStderr {
		output = io.MultiWriter(writer, os.Stderr)
	}

	level := parseLevel(cfg.Level)
	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)

	cleanup := func() {
		_ = writer.Sync()
		_ = writer.Close()
	}

	return logger, cleanup, nil
}

// SetupDefault is Setup(DebugConfig()) with slog.SetDefault already called,
// the shortcut a one-shot CLI invocation uses instead of threading a
// *slog.Logger through every call site.
func SetupDefault() (func(), error) {
	logger, cleanup, err := Setup(DebugConfig())
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	return cleanup, nil
}

// parseLevel converts a config string to the slog.Level it names, falling
// back to info for anything unrecognized rather than rejecting the config.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromString exposes parseLevel for callers outside this package that
// need to interpret a level string (e.g. a --level flag) without building
// a full Config.
func LevelFromString(level string) slog.Level {
	return parseLevel(level)
}
