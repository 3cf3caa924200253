// Package logger configures the process-wide logrus logger
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Setup configures logrus for the given mode: human-readable text in dev,
// JSON in prod. An unknown level falls back to info.
func Setup(mode, level string) {
	logrus.SetOutput(os.Stdout)

	if mode == "prod" {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
