// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v3"

	"github.com/recipegrid/recipegrid"
)

func parseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse a recipe source file and dump its syntax tree",
		ArgsUsage: "RECIPE",
		Description: `Parse a plain recipe source file (not a markdown document) and print
the resulting syntax tree. Intended for debugging recipe sources and the
recipe language itself.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected a RECIPE argument")
			}
			source, err := os.ReadFile(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			parsed, err := recipegrid.Parse(string(source))
			if err != nil {
				return err
			}
			spew.Fdump(os.Stdout, parsed)
			return nil
		},
	}
}
