// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package list implements the command that selects distributions and prints
// their identifiers without visiting them.
package list

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/distvisit/internal/ctxlog"
	"github.com/matt-FFFFFF/distvisit/internal/selector"
	"github.com/matt-FFFFFF/distvisit/internal/visitor"
	"github.com/urfave/cli/v3"
)

const (
	rootFlag     = "root"
	matchFlag    = "match"
	excludeFlag  = "exclude"
	subtreeFlag  = "subtree"
	allFilesFlag = "all-files"
)

// ListCmd selects distributions from a repository and writes one identifier
// per line to stdout.
var ListCmd = &cli.Command{
	Name:        "list",
	Description: "Select distributions from the repository and print their identifiers, one per line.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     rootFlag,
			Aliases:  []string{"r"},
			Usage:    "Repository root; must contain an authors/id subtree.",
			Required: true,
			OnlyOnce: true,
		},
		&cli.StringSliceFlag{
			Name:    matchFlag,
			Aliases: []string{"m"},
			Usage:   "Regular expression a path must match to be selected. Repeat to require all of several patterns.",
		},
		&cli.StringSliceFlag{
			Name:    excludeFlag,
			Aliases: []string{"x"},
			Usage:   "Regular expression that excludes a path when it matches. Takes precedence over --match.",
		},
		&cli.StringSliceFlag{
			Name:  subtreeFlag,
			Usage: "Restrict the walk to a subtree under authors/id, e.g. D/DA/DAGOLDEN. Repeat for several.",
		},
		&cli.BoolFlag{
			Name:  allFilesFlag,
			Usage: "Select every regular file, not only recognized archives.",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		v, err := visitor.New(cmd.String(rootFlag))
		if err != nil {
			return err
		}

		n, err := v.Select(ctx, selector.Filter{
			Match:    cmd.StringSlice(matchFlag),
			Exclude:  cmd.StringSlice(excludeFlag),
			Subtrees: cmd.StringSlice(subtreeFlag),
			AllFiles: cmd.Bool(allFilesFlag),
		}, false)
		if err != nil {
			return err
		}

		for _, id := range v.Files() {
			fmt.Fprintln(cmd.Root().Writer, id)
		}

		ctxlog.Info(ctx, "selection complete", "count", n)

		return nil
	},
}
