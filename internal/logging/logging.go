// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"laundry-status-monitor/config"
)

// Setup points logrus at stderr with the configured level and format.
func Setup(cfg config.LogConfig) error {
	return setup(logrus.StandardLogger(), cfg, os.Stderr)
}

func setup(logger *logrus.Logger, cfg config.LogConfig, out io.Writer) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)
	logger.SetOutput(out)

	switch cfg.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return nil
}
