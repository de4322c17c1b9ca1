// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/recipegrid/recipegrid/number"
	"github.com/recipegrid/recipegrid/site"
)

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Compile a recipe markdown file into a standalone HTML page",
		ArgsUsage: "RECIPE [OUTPUT]",
		Description: `Compile the recipe in the given markdown file into a single HTML page.
If no output filename is given, the input filename with the suffix
replaced with '.html' is used.

By default links to local files and images are embedded as data: URLs so
the generated page does not depend on any other files.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "servings",
				Aliases: []string{"s"},
				Usage: "Rescale the recipe to serve `SERVINGS`. Requires the recipe " +
					"to declare its serving count in its title (e.g. 'for 4')",
			},
			&cli.StringFlag{
				Name:    "scale",
				Aliases: []string{"S"},
				Usage: "Multiplier to scale the recipe by. May be a decimal " +
					"(e.g. '3' or '3.14') or a fraction (e.g. '1/2' or '9 3/4')",
			},
			&cli.BoolFlag{
				Name:    "no-embed-local-links",
				Aliases: []string{"E"},
				Usage:   "Leave local link and image URLs as they are",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 || cmd.Args().Len() > 2 {
				return fmt.Errorf("expected RECIPE [OUTPUT] arguments")
			}
			input := cmd.Args().Get(0)

			opts := site.StandaloneOptions{
				Servings:        cmd.Int("servings"),
				EmbedLocalLinks: !cmd.Bool("no-embed-local-links"),
			}
			if s := cmd.String("scale"); s != "" {
				if opts.Servings > 0 {
					return fmt.Errorf("--scale and --servings are mutually exclusive")
				}
				scale, err := number.Parse(s)
				if err != nil {
					return fmt.Errorf("invalid scale %q: %w", s, err)
				}
				opts.Scale = &scale
			}

			html, err := site.GenerateStandalonePage(input, opts)
			if err != nil {
				return err
			}

			output := cmd.Args().Get(1)
			if output == "" {
				output = replaceExt(input, ".html")
			}
			return os.WriteFile(output, []byte(html), 0o666)
		},
	}
}

func replaceExt(filename, ext string) string {
	if i := strings.LastIndexByte(filename, '.'); i > strings.LastIndexByte(filename, '/') {
		return filename[:i] + ext
	}
	return filename + ext
}
