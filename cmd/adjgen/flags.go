package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"adjgen/internal/logger"
)

// Fixed relative defaults for the one-shot pipeline. The config file and
// flags both override them.
const (
	defaultWordsPath = "curated_adjectives.txt"
	defaultModelPath = "output/adjective_model.wmf"
)

var (
	logLevel  string
	logFormat string
	debug     bool
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func newLogger(cfg Config) logger.Logger {
	level := logLevel
	format := logFormat
	if cfg.LogLevel != "" && level == "info" {
		level = cfg.LogLevel
	}
	if cfg.LogFormat != "" && format == "pretty" {
		format = cfg.LogFormat
	}
	if debug {
		level = "debug"
	}
	return logger.Setup(os.Stderr, level, format)
}
