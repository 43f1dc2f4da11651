package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/driver"
)

// newLogger builds the CLI logger: a handler on stderr in the configured
// format, fanned out to a JSON log file when one is configured. The
// returned func closes the file.
func newLogger(cfg driver.LogConfig) (*slog.Logger, func(), error) {
	levelName := cfg.Level
	if env := os.Getenv(logEnvVar); env != "" {
		levelName = env
	}
	if levelName == "" {
		levelName = "warn"
	}
	level, err := driver.ParseLogLevel(levelName)
	if err != nil {
		return nil, nil, err
	}
	options := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	if cfg.Format == "json" {
		handlers = append(handlers, slog.NewJSONHandler(stderr, options))
	} else {
		handlers = append(handlers, slog.NewTextHandler(stderr, options))
	}

	closeLog := func() {}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("log file: %w", err)
		}
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(file, options))
		closeLog = func() { _ = file.Close() }
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeLog, nil
}
