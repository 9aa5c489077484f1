// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/matt-FFFFFF/distvisit/internal/ctxlog"
	"github.com/matt-FFFFFF/distvisit/internal/pipeline"
	"github.com/spf13/afero"
)

// FS is a filesystem abstraction used for file operations.
// Default is the OS filesystem, but can be replaced with a mock for testing.
var FS = afero.NewOsFs()

var (
	// ErrProvision is returned when the job's temporary directory cannot be created.
	ErrProvision = errors.New("failed to provision temporary directory")
	// ErrUnsupportedArchive is returned when no extraction strategy exists for an archive.
	ErrUnsupportedArchive = errors.New("unsupported archive type")
	// ErrExtract is returned when archive extraction fails.
	ErrExtract = errors.New("failed to extract archive")
	// ErrNoEntryDir is returned when the entry directory is missing at enter time.
	ErrNoEntryDir = errors.New("entry directory does not exist")
)

const (
	// tempDirPrefix is the prefix for per-job temporary directories.
	tempDirPrefix = "distvisit_"
	// tempDirSuffixLength is the length of the random suffix for the temporary directory.
	tempDirSuffixLength = 8
	// sevenFiveFive is the file mode for the temporary directory.
	sevenFiveFive = 0o755
	// ownerTraverse is the owner read+execute bits granted to an entry
	// directory that cannot be entered.
	ownerTraverse = 0o500
)

// TempDirPath returns the directory under which per-job temporary directories
// are created.
var TempDirPath = os.TempDir

// RandomName generates a random string with the given prefix and length.
var RandomName = func(prefix string, n int) string {
	const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[rand.Intn(len(letterBytes))]
	}

	return prefix + string(b)
}

// Provision creates the job's private temporary directory. The directory is
// unique per job; Cleanup removes it when the job completes, on every exit
// path.
func Provision(job *pipeline.Job) error {
	tmpDir := filepath.Join(TempDirPath(), RandomName(tempDirPrefix, tempDirSuffixLength))

	if err := FS.MkdirAll(tmpDir, sevenFiveFive); err != nil {
		return errors.Join(ErrProvision, err)
	}

	job.TempDir = tmpDir

	return nil
}

// Cleanup removes the job's temporary directory. Failures are logged (unless
// quiet) and otherwise ignored; a stale temp directory must never fail the
// batch.
func Cleanup(ctx context.Context, job *pipeline.Job) {
	if job.TempDir == "" {
		return
	}

	if err := FS.RemoveAll(job.TempDir); err != nil && !job.Quiet {
		ctxlog.Warn(ctx, "failed to remove temporary directory",
			"id", job.ID,
			"tempDir", job.TempDir,
			"error", err)
	}
}

// EntryDir normalizes an unpacked temporary directory to a single entry
// directory. If the directory has exactly one child and that child is itself
// a directory (the common case), the child is the entry directory; otherwise
// (flat unpack, or multiple top-level entries) the temporary directory itself
// is. Downstream stages rely on this fallback and must receive a single,
// predictable directory regardless of how the archive was authored.
func EntryDir(fsys afero.Fs, tempDir string) (string, error) {
	entries, err := afero.ReadDir(fsys, tempDir)
	if err != nil {
		return "", fmt.Errorf("failed to read temporary directory %s: %w", tempDir, err)
	}

	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(tempDir, entries[0].Name()), nil
	}

	return tempDir, nil
}

// Extract is the default extract stage. It decompresses the job's archive
// into the job's temporary directory and records the normalized entry
// directory in the outcome's Path. Setting "prefer_bin" in the stash selects
// the faster but less portable system-binary strategy. A failed extraction is
// not fatal to the batch; the outcome is false and the pipeline skips to
// finish.
func Extract(ctx context.Context, job *pipeline.Job) pipeline.Outcome {
	var err error
	if job.Stash.Bool("prefer_bin") {
		err = extractBin(ctx, job)
	} else {
		err = extractNative(job)
	}

	if err != nil {
		if !job.Quiet {
			ctxlog.Error(ctx, "extraction failed",
				"id", job.ID,
				"archive", job.ArchivePath,
				"error", err)
		}

		return pipeline.Outcome{Err: err}
	}

	entry, err := EntryDir(FS, job.TempDir)
	if err != nil {
		if !job.Quiet {
			ctxlog.Error(ctx, "failed to normalize entry directory",
				"id", job.ID,
				"error", err)
		}

		return pipeline.Outcome{Err: err}
	}

	return pipeline.Outcome{OK: true, Path: entry}
}

// Enter is the default enter stage. It captures the job's current working
// context, verifies the entry directory recorded by extract exists (granting
// owner traverse permission if missing), switches the job's working context
// into it, and records the previous context in the outcome's Path so that
// Leave can restore it.
func Enter(ctx context.Context, job *pipeline.Job) pipeline.Outcome {
	prev := job.WorkDir
	entry := job.Results[pipeline.StageExtract].Path

	info, err := FS.Stat(entry)
	if entry == "" || err != nil || !info.IsDir() {
		if !job.Quiet {
			ctxlog.Error(ctx, "entry directory missing",
				"id", job.ID,
				"entryDir", entry)
		}

		return pipeline.Outcome{Err: fmt.Errorf("%w: %s", ErrNoEntryDir, entry)}
	}

	if info.Mode().Perm()&ownerTraverse != ownerTraverse {
		// Some archives ship directories without owner read or execute bits.
		if err := FS.Chmod(entry, info.Mode().Perm()|ownerTraverse); err != nil && !job.Quiet {
			ctxlog.Warn(ctx, "failed to grant traverse permission",
				"id", job.ID,
				"entryDir", entry,
				"error", err)
		}
	}

	job.WorkDir = entry

	return pipeline.Outcome{OK: true, Path: prev}
}

// Leave is the default leave stage. It restores the working context captured
// by Enter. It always succeeds.
func Leave(_ context.Context, job *pipeline.Job) pipeline.Outcome {
	if enter, ok := job.Results[pipeline.StageEnter]; ok && enter.OK {
		job.WorkDir = enter.Path
	}

	return pipeline.Outcome{OK: true}
}
