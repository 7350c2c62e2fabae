package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

func InitLogger() {
	Log = logrus.New()

	// Set formatter to JSON
	Log.SetFormatter(&logrus.JSONFormatter{})

	// Set output to stdout (default)
	Log.SetOutput(os.Stdout)

	level := logrus.InfoLevel
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		level = lvl
	}
	Log.SetLevel(level)
}
