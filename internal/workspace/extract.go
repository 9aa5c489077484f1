// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/distvisit/internal/pipeline"
)

// extractUmask is applied to files created by the native decompressors.
const extractUmask = os.FileMode(0o022)

// suffixDecompressors maps recognized archive suffixes to go-getter
// decompressors, longest suffix first. There is no native decompressor for
// .tar.Z; those archives extract only with prefer_bin.
var suffixDecompressors = []struct {
	suffix string
	d      getter.Decompressor
}{
	{".tar.bz2", new(getter.TarBzip2Decompressor)},
	{".tar.gz", new(getter.TarGzipDecompressor)},
	{".tbz", new(getter.TarBzip2Decompressor)},
	{".tgz", new(getter.TarGzipDecompressor)},
	{".zip", new(getter.ZipDecompressor)},
}

func extractNative(job *pipeline.Job) error {
	name := strings.ToLower(job.ArchivePath)

	for _, sd := range suffixDecompressors {
		if !strings.HasSuffix(name, sd.suffix) {
			continue
		}

		if err := sd.d.Decompress(job.TempDir, job.ArchivePath, true, extractUmask); err != nil {
			return errors.Join(ErrExtract, err)
		}

		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedArchive, job.ArchivePath)
}

// extractBin shells out to the system tar or unzip binary. This is faster
// than the native decompressors on large archives and handles .tar.Z, but
// depends on the host toolchain.
func extractBin(ctx context.Context, job *pipeline.Job) error {
	var cmd *exec.Cmd

	switch {
	case strings.HasSuffix(strings.ToLower(job.ArchivePath), ".zip"):
		cmd = exec.CommandContext(ctx, "unzip", "-o", "-q", job.ArchivePath, "-d", job.TempDir)
	default:
		cmd = exec.CommandContext(ctx, "tar", "-xf", job.ArchivePath, "-C", job.TempDir)
	}

	if !job.Quiet {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return errors.Join(ErrExtract, err)
	}

	return nil
}
