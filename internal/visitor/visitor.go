// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package visitor

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/matt-FFFFFF/distvisit/internal/ctxlog"
	"github.com/matt-FFFFFF/distvisit/internal/executor"
	"github.com/matt-FFFFFF/distvisit/internal/pathcodec"
	"github.com/matt-FFFFFF/distvisit/internal/pipeline"
	"github.com/matt-FFFFFF/distvisit/internal/selector"
	"github.com/matt-FFFFFF/distvisit/internal/workspace"
	"github.com/spf13/afero"
)

// ErrNoRepository is returned when the repository root does not exist or does
// not contain an authors/id subtree.
var ErrNoRepository = errors.New("repository root does not contain authors/id")

// Visitor coordinates selection and iteration over a repository of archived
// distributions. The repository root is validated once at construction and is
// immutable for the visitor's lifetime.
type Visitor struct {
	root  string
	quiet bool
	stash pipeline.Stash
	files []string
	fs    afero.Fs
}

// Option configures a Visitor at construction time.
type Option func(*Visitor)

// WithQuiet sets the quiet flag. The default is quiet on.
func WithQuiet(quiet bool) Option {
	return func(v *Visitor) {
		v.quiet = quiet
	}
}

// WithStash sets the shared stash made available, read-only, to every job.
func WithStash(stash pipeline.Stash) Option {
	return func(v *Visitor) {
		v.stash = stash
	}
}

// WithFiles pre-seeds the file list.
func WithFiles(files []string) Option {
	return func(v *Visitor) {
		v.files = slices.Clone(files)
	}
}

// WithFs replaces the filesystem used for selection and root validation.
func WithFs(fsys afero.Fs) Option {
	return func(v *Visitor) {
		v.fs = fsys
	}
}

// New creates a Visitor for the repository at root. The root must exist and
// contain an authors/id subdirectory, otherwise construction fails and no
// partial visitor exists.
func New(root string, opts ...Option) (*Visitor, error) {
	v := &Visitor{
		root:  root,
		quiet: true,
		stash: pipeline.Stash{},
		fs:    afero.NewOsFs(),
	}

	for _, opt := range opts {
		opt(v)
	}

	ok, err := afero.DirExists(v.fs, pathcodec.IDRoot(root))
	if err != nil {
		return nil, fmt.Errorf("failed to validate repository root %s: %w", root, err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoRepository, root)
	}

	return v, nil
}

// Select walks the repository with the given filter and records the matching
// identifiers. By default the previous file list is replaced wholesale;
// appendTo concatenates instead, preserving the old list as a prefix. It
// returns the number of identifiers found by this invocation.
func (v *Visitor) Select(ctx context.Context, f selector.Filter, appendTo bool) (int, error) {
	ids, err := selector.Select(ctx, v.fs, v.root, f)
	if err != nil {
		return 0, err
	}

	if appendTo {
		v.files = append(v.files, ids...)
	} else {
		v.files = ids
	}

	return len(ids), nil
}

// Files returns a copy of the current file list.
func (v *Visitor) Files() []string {
	return slices.Clone(v.files)
}

// Iterate runs the pipeline once per selected identifier, sequentially for
// workers <= 1 or distributed across up to workers isolated workers
// otherwise. Nil stage fields take the documented defaults: check, start,
// visit and finish proceed unconditionally; extract, enter and leave are the
// workspace implementations. Iterate blocks until every dispatched item has
// completed and returns the number of items dispatched. Per-item failures are
// reported (unless quiet) and never escalate: the batch itself always
// succeeds.
func (v *Visitor) Iterate(ctx context.Context, workers int, stages pipeline.Stages) int {
	if stages.Extract == nil {
		stages.Extract = workspace.Extract
	}

	if stages.Enter == nil {
		stages.Enter = workspace.Enter
	}

	if stages.Leave == nil {
		stages.Leave = workspace.Leave
	}

	files := v.files

	err := executor.Run(ctx, files, workers, func(ctx context.Context, id string) error {
		job := pipeline.NewJob(id, pathcodec.Resolve(id, v.root), v.stash, v.quiet)

		if err := workspace.Provision(job); err != nil {
			return err
		}

		defer workspace.Cleanup(ctx, job)

		pipeline.Run(ctx, job, stages)

		// Stage failures are recorded in the job's results and reported by
		// the stages themselves; they do not escalate past the pipeline.
		return nil
	})
	if err != nil && !v.quiet {
		ctxlog.Warn(ctx, "some items failed", "error", err)
	}

	return len(files)
}
