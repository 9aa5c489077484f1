// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/distvisit/cmd/list"
	"github.com/matt-FFFFFF/distvisit/cmd/visit"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		list.ListCmd,
		visit.VisitCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "distvisit",
	Description: `Distvisit bulk-processes a mirror of archived software distributions laid
out by author-initial subdirectories (authors/id/<L1>/<L2>/AUTHOR). It selects
a deterministic working set with include/exclude patterns, then runs a
fixed-stage pipeline per distribution: validate, unpack into an isolated
workspace, hand control to user logic, clean up. Iteration can be distributed
across isolated workers.`,
	Usage:     "distvisit visit --root /srv/mirror --jobs 4 --exec 'prove -l'",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
