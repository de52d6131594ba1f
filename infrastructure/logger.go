package infrastructure

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a JSON logger outside development and a text logger
// inside it. Unknown levels fall back to info.
func NewLogger(env, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if env == "development" || env == "test" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
