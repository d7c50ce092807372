package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a new configured logger writing to stdout
func NewLogger(level string) *logrus.Logger {
	return NewLoggerWithOutput(level, os.Stdout)
}

// NewLoggerWithOutput creates a configured logger writing to out
func NewLoggerWithOutput(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Parse log level
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	return logger
}
