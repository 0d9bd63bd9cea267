package config

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/echozyr2001/BrewDeck/internal/logging"
)

var (
	logMu         sync.Mutex
	logFileHandle *os.File
)

// InitLogger builds the process logger from the logging section, honoring
// a debug override from the CLI flag. When a log file is configured its
// directory is created and output goes to both the console and the file.
func InitLogger(cfg LoggingConfig, debug bool) (zerolog.Logger, error) {
	logMu.Lock()
	defer logMu.Unlock()

	level := cfg.Level
	if debug {
		level = "debug"
	}

	closeLogFileLocked()

	var writers []io.Writer
	if cfg.Format == "json" {
		writers = append(writers, os.Stderr)
	} else {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
			return zerolog.Nop(), err
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return zerolog.Nop(), err
		}
		logFileHandle = f
		writers = append(writers, f)
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(io.MultiWriter(writers...)).Level(lvl).With().Timestamp().Logger()
	return logger, nil
}

// CloseLogFile releases the log file handle, if any.
func CloseLogFile() {
	logMu.Lock()
	defer logMu.Unlock()
	closeLogFileLocked()
}

func closeLogFileLocked() {
	if logFileHandle != nil {
		_ = logFileHandle.Close()
		logFileHandle = nil
	}
}

// LoggerConfig translates the tree into the logging package's config,
// for callers that want a plain stderr logger without file output.
func (c *Config) LoggerConfig(debug bool) logging.Config {
	level := c.Logging.Level
	if debug {
		level = "debug"
	}
	return logging.Config{Level: level, Format: c.Logging.Format}
}
