package lightbox

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger carries module=lightbox on every entry. Only debug-level events are
// emitted from per-frame paths.
var logger zerolog.Logger = log.With().Str("module", "lightbox").Logger()

// SetLogger replaces the package logger. The module field is added
// automatically.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("module", "lightbox").Logger()
}
