// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/recipegrid/recipegrid/site"
)

func siteCmd() *cli.Command {
	return &cli.Command{
		Name:      "site",
		Usage:     "Compile a directory of recipes into a static recipe website",
		ArgsUsage: "RECIPES OUTPUT",
		Description: `Compile a directory hierarchy of recipe grid markdown files into a
static recipe website. The output directory is created if it does not
exist; files already in it may be overwritten silently.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "max-servings",
				Aliases: []string{"s"},
				Value:   10,
				Usage: "The maximum number of servings to scale each recipe to. Must " +
					"be at least as many servings as the largest serving count " +
					"declared by any recipe",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Read site settings from the YAML `FILE`",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("expected RECIPES and OUTPUT arguments")
			}

			cfg := site.DefaultConfig()
			if path := cmd.String("config"); path != "" {
				var err error
				cfg, err = site.LoadConfig(path)
				if err != nil {
					return err
				}
			}
			if cmd.IsSet("max-servings") {
				cfg.MaxServings = cmd.Int("max-servings")
			}

			return site.GenerateSite(cmd.Args().Get(0), cmd.Args().Get(1), cfg)
		},
	}
}
