package main

import (
	"context"
	"os"

	"github.com/samcharles93/tad/internal/inspect"
	"github.com/samcharles93/tad/pkg/tad"
	"github.com/urfave/cli/v3"
)

func infoCmd() *cli.Command {
	var (
		statistics bool
		checksum   bool
		asJSON     bool
	)

	return &cli.Command{
		Name:      "info",
		Usage:     "Print the shape, type and tags of every array in a file",
		ArgsUsage: "FILE",
		Flags: append(inputFlags(),
			&cli.BoolFlag{
				Name:        "statistics",
				Aliases:     []string{"s"},
				Usage:       "print per-component statistics",
				Destination: &statistics,
			},
			&cli.BoolFlag{
				Name:        "checksum",
				Usage:       "print a blake3 checksum of each array's data",
				Destination: &checksum,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print JSON instead of text",
				Destination: &asJSON,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args, err := argsExactly(cmd, "FILE")
			if err != nil {
				return err
			}
			applyFormatConfig(cmd, appConfig, knownFormat, args, "")
			applyInfoConfig(cmd, appConfig, &statistics)

			in, err := openInput(ctx, args[0])
			if err != nil {
				return err
			}
			defer in.close()

			opts := inspect.Options{Statistics: statistics, Checksum: checksum}
			var summaries []inspect.Summary
			err = in.each(func(index int, a *tad.Array) error {
				s := inspect.Summarize(index, a, opts)
				if asJSON {
					summaries = append(summaries, s)
					return nil
				}
				return inspect.WriteText(os.Stdout, s)
			})
			if err != nil {
				return err
			}
			if asJSON {
				if summaries == nil {
					summaries = []inspect.Summary{}
				}
				return inspect.WriteJSON(os.Stdout, summaries)
			}
			return nil
		},
	}
}
