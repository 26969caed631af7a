package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

var once sync.Once
var Log zerolog.Logger

func configureLogger() {
	zerolog.TimeFieldFormat = timeFormat

	// stdout carries the comparison report
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: timeFormat,
	}

	Log = zerolog.New(output).With().Timestamp().Logger()
}

// GetLoggerConfigured returns the process logger, setting the global level
// on first use
func GetLoggerConfigured(level zerolog.Level) *zerolog.Logger {
	once.Do(func() {
		configureLogger()
		zerolog.SetGlobalLevel(level)
	})
	return &Log
}

func GetLogger() *zerolog.Logger {
	once.Do(func() {
		configureLogger()
	})
	return &Log
}
