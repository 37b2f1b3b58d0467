package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samcharles93/tad/internal/logger"
	"github.com/samcharles93/tad/pkg/tad"
	"github.com/samcharles93/tad/pkg/tadio"
	"github.com/urfave/cli/v3"
)

// formats is the backend registry shared by all commands.
var formats = tadio.DefaultRegistry()

func knownFormat(name string) bool {
	_, err := formats.FormatFor(name, tad.TagList{})
	return err == nil
}

// input is an open importer with its own logger.
type input struct {
	*tadio.Importer
	log logger.Logger
}

func openInput(ctx context.Context, name string) (*input, error) {
	hints, err := hintList(inputFormat, inputHints)
	if err != nil {
		return nil, err
	}
	im := formats.NewImporter(name, hints)
	log := logger.FromContext(ctx).With(
		"stream", uuid.NewString(),
		"file", name,
		"format", tadio.FormatName(name, &hints),
	)
	if err := im.CheckAccess(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	log.Debug("opened input")
	return &input{Importer: im, log: log}, nil
}

func (in *input) close() {
	if err := in.Close(); err != nil {
		in.log.Warn("close input failed", "error", err)
	}
}

// each calls fn for every remaining array in sequence.
func (in *input) each(fn func(index int, a *tad.Array) error) error {
	for i := 0; ; i++ {
		more, err := in.HasMore()
		if err != nil {
			return fmt.Errorf("%s: %w", in.FileName(), err)
		}
		if !more {
			in.log.Debug("end of input", "arrays", i)
			return nil
		}
		a, err := in.ReadArray(-1)
		if err != nil {
			return fmt.Errorf("%s: array %d: %w", in.FileName(), i, err)
		}
		if err := fn(i, a); err != nil {
			return err
		}
	}
}

// output is an exporter with its own logger.
type output struct {
	*tadio.Exporter
	log     logger.Logger
	written int
}

func openOutput(ctx context.Context, name string, appendMode bool) (*output, error) {
	var hints tad.TagList
	if outputFormat != "" {
		if err := hints.Set(tadio.HintFormat, outputFormat); err != nil {
			return nil, err
		}
	}
	ex := formats.NewExporter(name, appendMode, hints)
	log := logger.FromContext(ctx).With(
		"stream", uuid.NewString(),
		"file", name,
		"format", tadio.FormatName(name, &hints),
		"append", appendMode,
	)
	return &output{Exporter: ex, log: log}, nil
}

func (out *output) write(a *tad.Array) error {
	if err := out.WriteArray(a); err != nil {
		return fmt.Errorf("%s: %w", out.FileName(), err)
	}
	out.written++
	return nil
}

// finish closes the output and joins any close error to err.
func (out *output) finish(err error) error {
	cerr := out.Close()
	if cerr != nil {
		cerr = fmt.Errorf("%s: %w", out.FileName(), cerr)
	}
	if err = errors.Join(err, cerr); err == nil {
		out.log.Debug("closed output", "arrays", out.written)
	}
	return err
}

// argsExactly checks the positional argument count.
func argsExactly(cmd *cli.Command, names ...string) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) != len(names) {
		return nil, fmt.Errorf("%s: expected arguments %v, got %d", cmd.Name, names, len(args))
	}
	return args, nil
}
