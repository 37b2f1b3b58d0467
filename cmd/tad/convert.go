package main

import (
	"context"

	"github.com/samcharles93/tad/pkg/tad"
	"github.com/urfave/cli/v3"
)

func convertCmd() *cli.Command {
	var appendMode bool

	return &cli.Command{
		Name:      "convert",
		Usage:     "Copy every array from one file to another, changing the file format",
		ArgsUsage: "INPUT OUTPUT",
		Flags: append(append(inputFlags(), outputFlags()...),
			&cli.BoolFlag{
				Name:        "append",
				Aliases:     []string{"a"},
				Usage:       "append to OUTPUT instead of overwriting it",
				Destination: &appendMode,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args, err := argsExactly(cmd, "INPUT", "OUTPUT")
			if err != nil {
				return err
			}
			applyFormatConfig(cmd, appConfig, knownFormat, args[:1], args[1])

			in, err := openInput(ctx, args[0])
			if err != nil {
				return err
			}
			defer in.close()
			out, err := openOutput(ctx, args[1], appendMode)
			if err != nil {
				return err
			}
			err = in.each(func(_ int, a *tad.Array) error {
				return out.write(a)
			})
			return out.finish(err)
		},
	}
}
