// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Recipegrid compiles recipe grid markdown files into HTML recipe pages
// and static recipe websites.
//
// Usage:
//
//	recipegrid render RECIPE [OUTPUT]
//	recipegrid lint RECIPE...
//	recipegrid site RECIPES OUTPUT
//	recipegrid serve [DIR]
//	recipegrid parse RECIPE
//
// Run "recipegrid help" for details of each command.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "recipegrid",
		Usage: "Compile recipe grid markdown files into HTML",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelInfo
			if cmd.Bool("verbose") {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
			return ctx, nil
		},
		Commands: []*cli.Command{
			renderCmd(),
			lintCmd(),
			siteCmd(),
			serveCmd(),
			parseCmd(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
