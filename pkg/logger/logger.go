package logger

import (
	"os"

	"github.com/rs/zerolog"
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	log zerolog.Logger
}

// NewLogger creates a logger writing to stderr. Unknown levels fall back to
// info.
func NewLogger(level string) *defaultLogger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return &defaultLogger{
		log: zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger(),
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.log.Debug().Msgf(msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.log.Info().Msgf(msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.log.Warn().Msgf(msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.log.Error().Msgf(msg, a...)
}
