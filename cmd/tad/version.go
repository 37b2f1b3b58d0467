package main

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/samcharles93/tad/internal/version"
	"github.com/urfave/cli/v3"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information and the available file formats",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := version.Resolve()
			fmt.Printf("tad %s\n", version.String())
			if info.BuildTime != "" && info.BuildTime != info.Version {
				fmt.Printf("built:   %s\n", info.BuildTime)
			}
			fmt.Printf("go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Printf("formats: %s\n", strings.Join(formats.Names(), ", "))
			return nil
		},
	}
}
