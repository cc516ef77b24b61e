package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger creates the run logger writing to w.
func newLogger(w io.Writer, format string, verbose bool) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)

	switch format {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (must be text or json)", format)
	}

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log, nil
}
