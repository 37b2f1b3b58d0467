package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func countCmd() *cli.Command {
	return &cli.Command{
		Name:      "count",
		Usage:     "Print the number of arrays in a file",
		ArgsUsage: "FILE",
		Flags:     inputFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args, err := argsExactly(cmd, "FILE")
			if err != nil {
				return err
			}
			applyFormatConfig(cmd, appConfig, knownFormat, args, "")

			in, err := openInput(ctx, args[0])
			if err != nil {
				return err
			}
			defer in.close()

			count, err := in.ArrayCount()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if !count.Known() {
				log := in.log.With("state", count.String())
				if cerr := in.CountErr(); cerr != nil {
					log = log.With("error", cerr)
				}
				log.Warn("array count not available")
			}
			fmt.Println(count.String())
			return nil
		},
	}
}
