// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/recipegrid/recipegrid/lint"
	"github.com/recipegrid/recipegrid/markdown"
	"github.com/recipegrid/recipegrid/units"
)

func lintCmd() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Check recipe markdown files for common mistakes",
		ArgsUsage: "RECIPE...",
		Description: `Check the recipes in the given markdown files for common mistakes such
as misspelling ingredient or sub recipe names defined earlier in a
recipe.

If any potential issues are found, explanations are printed and a
non-zero exit status is returned.

Errors (e.g. syntax errors) are fatal and must be fixed before a recipe
can be checked any further. Warnings may occasionally be produced for
recipes which are actually correct; warnings of a specific kind can be
suppressed with --ignore. Warning kinds are shown in square brackets in
warning messages.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "ignore",
				Aliases: []string{"i"},
				Usage:   "Ignore warnings of the given `KIND`. May be repeated",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("expected one or more RECIPE arguments")
			}
			ignore := cmd.StringSlice("ignore")

			failed := false
			for _, filename := range cmd.Args().Slice() {
				source, err := os.ReadFile(filename)
				if err != nil {
					return err
				}
				compiled, err := markdown.Compile(string(source))
				if err != nil {
					failed = true
					fmt.Printf("%s: Error: %v\n", filename, err)
					continue
				}
				for _, blocks := range compiled.Recipes() {
					for _, l := range lint.Check(blocks, units.Default) {
						if slices.Contains(ignore, l.Kind.String()) {
							continue
						}
						failed = true
						fmt.Printf("%s: Warning: %s [%s]\n", filename, l.Description, l.Kind)
					}
				}
			}
			if failed {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
