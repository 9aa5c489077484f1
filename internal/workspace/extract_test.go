// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/distvisit/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZipFixture creates a zip archive containing a single top-level
// directory with one file.
func writeZipFixture(t *testing.T, path string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)

	w, err := zw.Create("Foo-1.00/README")
	require.NoError(t, err)

	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

// writeTarGzFixture creates a tar.gz archive whose entries unpack flat into
// the destination directory.
func writeTarGzFixture(t *testing.T, path string, names ...string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	for _, name := range names {
		content := []byte("content\n")
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}))

		_, err = tw.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
}

func TestExtractZipSingleTopLevelDirectory(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "Foo-1.00.zip")
	writeZipFixture(t, archive)

	job := pipeline.NewJob("DAGOLDEN/Foo-1.00.zip", archive, pipeline.Stash{}, true)
	job.TempDir = filepath.Join(dir, "work")
	require.NoError(t, os.MkdirAll(job.TempDir, 0o755))

	out := Extract(context.Background(), job)
	require.NoError(t, out.Err)
	require.True(t, out.OK)

	assert.Equal(t, filepath.Join(job.TempDir, "Foo-1.00"), out.Path)
	assert.FileExists(t, filepath.Join(out.Path, "README"))
}

func TestExtractTarGzFlatUnpack(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "Flat-1.00.tar.gz")
	writeTarGzFixture(t, archive, "README", "Makefile.PL")

	job := pipeline.NewJob("DAGOLDEN/Flat-1.00.tar.gz", archive, pipeline.Stash{}, true)
	job.TempDir = filepath.Join(dir, "work")
	require.NoError(t, os.MkdirAll(job.TempDir, 0o755))

	out := Extract(context.Background(), job)
	require.NoError(t, out.Err)
	require.True(t, out.OK)

	assert.Equal(t, job.TempDir, out.Path, "flat archives resolve to the temp dir itself")
	assert.FileExists(t, filepath.Join(job.TempDir, "README"))
}

func TestExtractMissingArchive(t *testing.T) {
	dir := t.TempDir()

	job := pipeline.NewJob("DAGOLDEN/Gone-1.00.tar.gz", filepath.Join(dir, "Gone-1.00.tar.gz"), pipeline.Stash{}, true)
	job.TempDir = filepath.Join(dir, "work")
	require.NoError(t, os.MkdirAll(job.TempDir, 0o755))

	out := Extract(context.Background(), job)
	assert.False(t, out.OK)
	require.ErrorIs(t, out.Err, ErrExtract)
}

func TestExtractUnsupportedSuffix(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "Old-1.00.tar.Z")
	require.NoError(t, os.WriteFile(archive, []byte("not really compressed"), 0o644))

	job := pipeline.NewJob("DAGOLDEN/Old-1.00.tar.Z", archive, pipeline.Stash{}, true)
	job.TempDir = filepath.Join(dir, "work")
	require.NoError(t, os.MkdirAll(job.TempDir, 0o755))

	out := Extract(context.Background(), job)
	assert.False(t, out.OK)
	require.ErrorIs(t, out.Err, ErrUnsupportedArchive)
}

func TestExtractPreferBinTar(t *testing.T) {
	if _, err := os.Stat("/usr/bin/tar"); err != nil {
		if _, err := os.Stat("/bin/tar"); err != nil {
			t.Skip("system tar not available")
		}
	}

	dir := t.TempDir()
	archive := filepath.Join(dir, "Flat-1.00.tar.gz")
	writeTarGzFixture(t, archive, "README")

	job := pipeline.NewJob("DAGOLDEN/Flat-1.00.tar.gz", archive, pipeline.Stash{"prefer_bin": true}, true)
	job.TempDir = filepath.Join(dir, "work")
	require.NoError(t, os.MkdirAll(job.TempDir, 0o755))

	out := Extract(context.Background(), job)
	require.NoError(t, out.Err)
	assert.FileExists(t, filepath.Join(job.TempDir, "README"))
}
