package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/samcharles93/tad/internal/logger"
	"github.com/samcharles93/tad/internal/server"
	"github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:      "serve",
		Usage:     "Serve the arrays of a file over HTTP",
		ArgsUsage: "FILE",
		Flags: append(inputFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "time allowed to read a request, headers included",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args, err := argsExactly(cmd, "FILE")
			if err != nil {
				return err
			}
			applyFormatConfig(cmd, appConfig, knownFormat, args, "")
			applyServeConfig(cmd, appConfig, &addr)
			log := logger.FromContext(ctx)

			in, err := openInput(ctx, args[0])
			if err != nil {
				return err
			}
			in.close()
			hints, err := hintList(inputFormat, inputHints)
			if err != nil {
				return err
			}

			srv, err := server.New(server.Config{
				FileName: args[0],
				Hints:    hints,
				Registry: formats,
				Logger:   log,
			})
			if err != nil {
				return err
			}

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			srv.Register(e)
			log.Info("starting server", "address", addr, "file", args[0])
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(hs *http.Server) error {
					hs.ReadHeaderTimeout = readTimeout
					hs.ReadTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
