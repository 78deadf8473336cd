// Package logging builds the logrus logger used across extapi.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LevelEnv overrides the level chosen from verbosity.
const LevelEnv = "EXTAPI_LOG_LEVEL"

type Options struct {
	// Verbosity is the number of -v flags: 0 warn, 1 debug, 2 or more trace.
	Verbosity int
	NoColor   bool
	// JSON switches to one JSON object per line.
	JSON   bool
	Writer io.Writer
}

// New returns a logger writing to opts.Writer, or stderr when nil.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	logger.SetOutput(opts.Writer)

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "time",
				logrus.FieldKeyMsg:  "msg",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors:    opts.NoColor,
			FullTimestamp:    true,
			TimestampFormat:  "15:04:05.000",
			QuoteEmptyFields: true,
		})
	}

	logger.SetLevel(levelFor(opts.Verbosity))
	if v := strings.TrimSpace(os.Getenv(LevelEnv)); v != "" {
		if lvl, err := logrus.ParseLevel(v); err == nil {
			logger.SetLevel(lvl)
		}
	}

	return logger
}

func levelFor(verbosity int) logrus.Level {
	switch {
	case verbosity >= 2:
		return logrus.TraceLevel
	case verbosity == 1:
		return logrus.DebugLevel
	default:
		return logrus.WarnLevel
	}
}

// Discard returns a logger that writes nothing.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
