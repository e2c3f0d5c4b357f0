package simnet

import (
	"io"

	"github.com/rs/zerolog"
)

// NewLogger builds a structured logger writing to w, tagged with the
// component name. Diagnostic-only: nothing in this package's behavior
// depends on logging being enabled, so a Nop logger (the default on
// every NetContext/SimDriver) is always a safe choice.
func NewLogger(w io.Writer, component string) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger()
}
