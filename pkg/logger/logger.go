package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	APP       = "APP"
	ASSISTANT = "ASSISTANT"
	CONFIG    = "CONFIG"
	HANDLER   = "HANDLER"
	REDIS     = "REDIS"
	SERVICE   = "SERVICE"
	SESSION   = "SESSION"
	SHELL     = "SHELL"
)

func getLogLevel() zerolog.Level {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup points the global zerolog logger at w, using LOG_LEVEL for the level
// and LOG_FORMAT=console for human readable output.
func Setup(w io.Writer) {
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zerolog.SetGlobalLevel(getLogLevel())
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func Debug(namespace, format string, v ...interface{}) {
	log.Debug().Str("namespace", namespace).Msgf(format, v...)
}

func Info(namespace, format string, v ...interface{}) {
	log.Info().Str("namespace", namespace).Msgf(format, v...)
}

func Warn(namespace, format string, v ...interface{}) {
	log.Warn().Str("namespace", namespace).Msgf(format, v...)
}

func Error(namespace, format string, v ...interface{}) {
	log.Error().Str("namespace", namespace).Msgf(format, v...)
}
