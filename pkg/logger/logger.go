// Package logx configures the process-wide zerolog logger. Handlers log
// through the zerolog/log global; nothing here is request scoped.
package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Level is a zerolog level name (trace, debug, info, warn, error).
	// Unknown names fall back to info.
	Level  string `split_words:"true" default:"info"`
	Pretty bool   `split_words:"true" default:"false"`
}

func Init(opts ...Config) {
	cfg := Config{Level: "info"}
	if len(opts) > 0 {
		cfg = opts[0]
	}

	var w io.Writer = os.Stdout
	if cfg.Pretty {
		w = zerolog.NewConsoleWriter()
	}

	log.Logger = zerolog.New(w).
		Level(parseLevel(cfg.Level)).
		With().Timestamp().Caller().
		Logger()
}

func parseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
