package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Logger = zerolog.Logger

// New returns a sub-logger tagged with the given component name.
func New(component string) *Logger {
	sublogger := log.With().
		Str("component", component).
		Logger()
	return &sublogger
}

// Nop discards everything, used where no logger was configured.
func Nop() *Logger {
	l := zerolog.Nop()
	return &l
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	_, debug := os.LookupEnv("DEBUG")
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}
