// Package logging configures the global zerolog logger.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration.
type Config struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	Console    bool   `mapstructure:"console"` // human readable output instead of JSON lines
	TimeFormat string `mapstructure:"time_format"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger writing to out and, when cfg.File is set, to that
// file as JSON lines. The returned closer releases the file. An unknown
// level is reported as an error together with an info-level logger.
func New(cfg Config, out io.Writer) (zerolog.Logger, io.Closer, error) {
	var errs []error
	var closer io.Closer = nopCloser{}

	primary := out
	if cfg.Console {
		primary = zerolog.ConsoleWriter{Out: out, TimeFormat: cfg.TimeFormat, NoColor: out != os.Stderr}
	}
	writers := []io.Writer{primary}

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			errs = append(errs, fmt.Errorf("opening log file: %w", err))
		} else {
			writers = append(writers, file)
			closer = file
		}
	}

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			errs = append(errs, fmt.Errorf("log level %q: %w", cfg.Level, err))
		} else {
			level = parsed
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	return logger, closer, errors.Join(errs...)
}

var (
	mu      sync.Mutex
	current io.Closer = nopCloser{}
)

// Setup replaces the global logger and closes the log file of the previous
// one. Output goes to stderr so rewritten documents on stdout stay clean.
func Setup(cfg Config) {
	logger, closer, err := New(cfg, os.Stderr)

	mu.Lock()
	previous := current
	current = closer
	log.Logger = logger
	zerolog.SetGlobalLevel(logger.GetLevel())
	mu.Unlock()

	if cerr := previous.Close(); cerr != nil {
		log.Warn().Err(cerr).Msg("Closing previous log file failed")
	}
	if err != nil {
		log.Warn().Err(err).Msg("Logger configured with fallbacks")
	}
	log.Debug().Str("level", logger.GetLevel().String()).Msg("Logger initialized")
}
