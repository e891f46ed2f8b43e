// Package logging configures the global zerolog logger: a console writer
// on stderr (colored when attached to a terminal, JSON otherwise) plus a
// rotating file sink when a logs directory is configured.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init sets up the global logger. An empty logsDir disables the file sink.
func Init(verbose bool, logsDir string) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	if logsDir != "" {
		if err := os.MkdirAll(logsDir, 0o755); err == nil {
			out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
				Filename:   filepath.Join(logsDir, "autoplan.log"),
				MaxSize:    16, // megabytes
				MaxBackups: 32,
				Compress:   true,
			})
		} else {
			log.Warn().Err(err).Str("dir", logsDir).Msg("log directory unavailable, stderr only")
		}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
