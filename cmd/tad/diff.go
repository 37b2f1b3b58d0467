package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samcharles93/tad/internal/inspect"
	"github.com/samcharles93/tad/pkg/tad"
	"github.com/urfave/cli/v3"
)

func diffCmd() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Write the absolute per-element difference of two files' arrays",
		ArgsUsage: "INPUT1 INPUT2 OUTPUT",
		Description: "Arrays are paired in order and must have the same component type, " +
			"component count and element count. The output takes the shape and tags of INPUT1; " +
			"MINVAL and MAXVAL component tags are dropped. INPUT2 must hold at least as many " +
			"arrays as INPUT1; a shorter INPUT2 is an error, extra arrays in it are ignored.",
		Flags: append(inputFlags(), outputFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args, err := argsExactly(cmd, "INPUT1", "INPUT2", "OUTPUT")
			if err != nil {
				return err
			}
			applyFormatConfig(cmd, appConfig, knownFormat, args[:2], args[2])

			a, err := openInput(ctx, args[0])
			if err != nil {
				return err
			}
			defer a.close()
			b, err := openInput(ctx, args[1])
			if err != nil {
				return err
			}
			defer b.close()
			out, err := openOutput(ctx, args[2], false)
			if err != nil {
				return err
			}
			return out.finish(diffStreams(a, b, out))
		},
	}
}

func diffStreams(a, b *input, out *output) error {
	err := a.each(func(index int, x *tad.Array) error {
		y, err := b.ReadArray(-1)
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: %w: no array %d", b.FileName(), tad.ErrTruncated, index)
		}
		if err != nil {
			return fmt.Errorf("%s: array %d: %w", b.FileName(), index, err)
		}
		d, err := inspect.AbsDiff(x, y)
		if err != nil {
			return fmt.Errorf("array %d: %w", index, err)
		}
		return out.write(d)
	})
	if err != nil {
		return err
	}
	if more, _ := b.HasMore(); more {
		b.log.Warn("ignoring arrays beyond the end of the first input", "compared", out.written)
	}
	return nil
}
