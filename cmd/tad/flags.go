package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/samcharles93/tad/internal/logger"
	"github.com/samcharles93/tad/pkg/tad"
	"github.com/samcharles93/tad/pkg/tadio"
	"github.com/urfave/cli/v3"
)

var (
	logLevel     string
	logFormat    string
	debug        bool
	inputFormat  string
	outputFormat string
	inputHints   []string

	appConfig Config
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "warn",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       logger.FormatPretty,
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "input-format",
			Aliases:     []string{"i"},
			Usage:       "format of the input files (overrides the file name extension)",
			Destination: &inputFormat,
		},
		&cli.StringSliceFlag{
			Name:        "hint",
			Usage:       "format hint KEY=VALUE for reading, e.g. DIMENSIONS=800x600 for raw input (repeatable)",
			Destination: &inputHints,
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output-format",
			Aliases:     []string{"o"},
			Usage:       "format of the output file (overrides the file name extension)",
			Destination: &outputFormat,
		},
	}
}

// setupLogging builds the logger from flags and config and stores it in
// the context for all commands.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	appConfig = LoadConfig()
	applyLoggingConfig(cmd, appConfig)
	level := logLevel
	if debug {
		level = "debug"
	}
	log, err := logger.Open(os.Stderr, logFormat, level)
	if err != nil {
		return ctx, err
	}
	return logger.WithContext(ctx, log), nil
}

// hintList builds format hints from a format override and KEY=VALUE pairs.
func hintList(format string, pairs []string) (tad.TagList, error) {
	var hints tad.TagList
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return tad.TagList{}, fmt.Errorf("invalid hint %q (want KEY=VALUE)", p)
		}
		if err := hints.Set(strings.ToUpper(strings.TrimSpace(key)), value); err != nil {
			return tad.TagList{}, err
		}
	}
	if format != "" {
		if err := hints.Set(tadio.HintFormat, format); err != nil {
			return tad.TagList{}, err
		}
	}
	return hints, nil
}
