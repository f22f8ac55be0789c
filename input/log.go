package input

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logger = log.With().Str("module", "input").Logger()

// SetLogger replaces the package logger.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("module", "input").Logger()
}
