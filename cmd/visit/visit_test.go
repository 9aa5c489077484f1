// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package visit

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/matt-FFFFFF/distvisit/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecStageRunsInWorkDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses a POSIX shell command")
	}

	dir := t.TempDir()

	job := pipeline.NewJob("DAGOLDEN/Foo-1.00.tar.gz", "/mirror/a", pipeline.Stash{}, true)
	job.WorkDir = dir
	job.TempDir = dir

	stage := execStage(`printf '%s' "$DISTVISIT_ID" > visited.txt`)
	out := stage(context.Background(), job)
	require.True(t, out.OK)
	require.NoError(t, out.Err)

	got, err := os.ReadFile(filepath.Join(dir, "visited.txt"))
	require.NoError(t, err)
	assert.Equal(t, "DAGOLDEN/Foo-1.00.tar.gz", string(got))
}

func TestExecStageFailureIsFalsy(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses a POSIX shell command")
	}

	job := pipeline.NewJob("DAGOLDEN/Foo-1.00.tar.gz", "/mirror/a", pipeline.Stash{}, true)
	job.WorkDir = t.TempDir()

	stage := execStage("exit 3")
	out := stage(context.Background(), job)
	assert.False(t, out.OK)
	require.Error(t, out.Err)
}
