// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package visit implements the command that selects distributions and runs
// the per-item pipeline over them, optionally in parallel.
package visit

import (
	"context"
	"os"
	"os/exec"
	"runtime"

	"github.com/matt-FFFFFF/distvisit/internal/ctxlog"
	"github.com/matt-FFFFFF/distvisit/internal/pipeline"
	"github.com/matt-FFFFFF/distvisit/internal/profile"
	"github.com/matt-FFFFFF/distvisit/internal/selector"
	"github.com/matt-FFFFFF/distvisit/internal/visitor"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	rootFlag      = "root"
	matchFlag     = "match"
	excludeFlag   = "exclude"
	subtreeFlag   = "subtree"
	allFilesFlag  = "all-files"
	jobsFlag      = "jobs"
	execFlag      = "exec"
	preferBinFlag = "prefer-bin"
	quietFlag     = "quiet"
	profileFlag   = "profile"
)

// VisitCmd selects distributions and iterates the pipeline over them.
var VisitCmd = &cli.Command{
	Name: "visit",
	Description: `Select distributions and run the pipeline over each one: extract the
archive into a private temporary directory, normalize to a single entry
directory and run the visit stage there, then clean up.

With --exec, the visit stage runs the given command via the platform shell in
the entry directory, with DISTVISIT_ID, DISTVISIT_ARCHIVE and
DISTVISIT_TEMPDIR set in its environment.

A YAML profile supplies defaults for every flag; flags given on the command
line override it.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     rootFlag,
			Aliases:  []string{"r"},
			Usage:    "Repository root; must contain an authors/id subtree.",
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
			Usage: "Restrict the walk to a subtree under authors/id. Repeat for several.",
		},
		&cli.BoolFlag{
			Name:  allFilesFlag,
			Usage: "Select every regular file, not only recognized archives.",
		},
		&cli.IntFlag{
			Name:    jobsFlag,
			Aliases: []string{"j"},
			Usage:   "Number of isolated workers. Zero or one runs sequentially.",
		},
		&cli.StringFlag{
			Name:    execFlag,
			Aliases: []string{"e"},
			Usage:   "Command to run in each distribution's entry directory.",
		},
		&cli.BoolFlag{
			Name:  preferBinFlag,
			Usage: "Extract with the system tar/unzip binaries instead of the built-in decompressors.",
		},
		&cli.BoolFlag{
			Name:  quietFlag,
			Usage: "Suppress per-item diagnostics.",
			Value: true,
		},
		&cli.StringFlag{
			Name:      profileFlag,
			Aliases:   []string{"p"},
			Usage:     "YAML profile supplying defaults for the other flags.",
			TakesFile: true,
			OnlyOnce:  true,
		},
	},
	Action: run,
}

func run(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)

	if path := cmd.String(profileFlag); path != "" {
		p, err := profile.Load(afero.NewOsFs(), path)
		if err != nil {
			return err
		}

		opts = opts.withProfile(cmd, p)
	}

	v, err := visitor.New(opts.root,
		visitor.WithQuiet(opts.quiet),
		visitor.WithStash(pipeline.Stash{"prefer_bin": opts.preferBin}),
	)
	if err != nil {
		return err
	}

	n, err := v.Select(ctx, selector.Filter{
		Match:    opts.match,
		Exclude:  opts.exclude,
		Subtrees: opts.subtrees,
		AllFiles: opts.allFiles,
	}, false)
	if err != nil {
		return err
	}

	ctxlog.Info(ctx, "selection complete", "count", n, "jobs", opts.jobs)

	stages := pipeline.Stages{}
	if opts.execCommand != "" {
		stages.Visit = execStage(opts.execCommand)
	}

	done := v.Iterate(ctx, opts.jobs, stages)
	ctxlog.Info(ctx, "iteration complete", "dispatched", done)

	return nil
}

type options struct {
	root        string
	match       []string
	exclude     []string
	subtrees    []string
	allFiles    bool
	jobs        int
	execCommand string
	preferBin   bool
	quiet       bool
}

func optionsFrom(cmd *cli.Command) options {
	return options{
		root:        cmd.String(rootFlag),
		match:       cmd.StringSlice(matchFlag),
		exclude:     cmd.StringSlice(excludeFlag),
		subtrees:    cmd.StringSlice(subtreeFlag),
		allFiles:    cmd.Bool(allFilesFlag),
		jobs:        cmd.Int(jobsFlag),
		execCommand: cmd.String(execFlag),
		preferBin:   cmd.Bool(preferBinFlag),
		quiet:       cmd.Bool(quietFlag),
	}
}

// withProfile fills in every option the user did not set on the command line
// from the profile.
func (o options) withProfile(cmd *cli.Command, p *profile.Profile) options {
	if !cmd.IsSet(rootFlag) && p.Root != "" {
		o.root = p.Root
	}

	if !cmd.IsSet(matchFlag) && len(p.Match) > 0 {
		o.match = p.Match
	}

	if !cmd.IsSet(excludeFlag) && len(p.Exclude) > 0 {
		o.exclude = p.Exclude
	}

	if !cmd.IsSet(subtreeFlag) && len(p.Subtrees) > 0 {
		o.subtrees = p.Subtrees
	}

	if !cmd.IsSet(allFilesFlag) {
		o.allFiles = p.AllFiles
	}

	if !cmd.IsSet(jobsFlag) {
		o.jobs = p.Jobs
	}

	if !cmd.IsSet(execFlag) && p.Exec != "" {
		o.execCommand = p.Exec
	}

	if !cmd.IsSet(preferBinFlag) {
		o.preferBin = p.PreferBin
	}

	if !cmd.IsSet(quietFlag) {
		o.quiet = p.IsQuiet()
	}

	return o
}

// execStage returns a visit stage that runs command via the platform shell in
// the job's working context.
func execStage(command string) pipeline.StageFunc {
	return func(ctx context.Context, job *pipeline.Job) pipeline.Outcome {
		var c *exec.Cmd
		if runtime.GOOS == "windows" {
			c = exec.CommandContext(ctx, "cmd.exe", "/C", command)
		} else {
			c = exec.CommandContext(ctx, "/bin/sh", "-c", command)
		}

		c.Dir = job.WorkDir
		c.Env = append(os.Environ(),
			"DISTVISIT_ID="+job.ID,
			"DISTVISIT_ARCHIVE="+job.ArchivePath,
			"DISTVISIT_TEMPDIR="+job.TempDir,
		)

		if !job.Quiet {
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
		}

		if err := c.Run(); err != nil {
			if !job.Quiet {
				ctxlog.Error(ctx, "visit command failed",
					"id", job.ID,
					"error", err)
			}

			return pipeline.Outcome{Err: err}
		}

		return pipeline.Outcome{OK: true}
	}
}
