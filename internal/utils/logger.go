package utils

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger     *logrus.Logger
	loggerOnce sync.Once
)

// GetLogger returns the process-wide logger. It is configured on first use
// from LOG_LEVEL and never reset afterwards.
func GetLogger() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = NewLogger(os.Getenv("LOG_LEVEL"), os.Stdout)
	})
	return logger
}

// NewLogger builds a JSON logger writing to out.
func NewLogger(level string, out io.Writer) *logrus.Logger {
	l := logrus.New()

	// Set log level from environment or default to info
	if level == "" {
		level = "info"
	}
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	l.SetLevel(logLevel)

	// Set formatter
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if out == nil {
		out = os.Stdout
	}
	l.SetOutput(out)

	return l
}
