package logging

import (
	"io"
	"os"
	"strings"

	"github.com/meysamhadeli/aibundle/config"
	"github.com/sirupsen/logrus"
)

// InitLogger configures the global logrus logger from the logging section of the config.
// The returned cleanup func closes the log file when one was opened.
func InitLogger(cfg config.LoggingConfig) func() error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("Invalid log level '%s', using 'warn' instead. Error: %v", cfg.Level, err)
		level = logrus.WarnLevel
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	cleanup := func() error { return nil }

	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logrus.Warnf("Failed to open log file '%s', using 'stderr' instead. Error: %v", cfg.Output, err)
			output = os.Stderr
		} else {
			output = file
			cleanup = file.Close
		}
	}
	logrus.SetOutput(output)

	logrus.Debug("Logger initialized")

	return cleanup
}
