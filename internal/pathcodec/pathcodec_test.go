// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pathcodec

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	got := Resolve("DAGOLDEN/Foo-1.00.tar.gz", "/mirror")
	want := filepath.Join("/mirror", "authors", "id", "D", "DA", "DAGOLDEN", "Foo-1.00.tar.gz")
	assert.Equal(t, want, got)
}

func TestResolveShortAuthor(t *testing.T) {
	// Single-letter author names shard onto themselves rather than panicking.
	got := Resolve("X/Thing-0.01.zip", "/mirror")
	want := filepath.Join("/mirror", "authors", "id", "X", "X", "X", "Thing-0.01.zip")
	assert.Equal(t, want, got)
}

func TestIsArchive(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"Foo-1.00.tar.gz", true},
		{"Foo-1.00.tar.bz2", true},
		{"Foo-1.00.tar.Z", true},
		{"Foo-1.00.tgz", true},
		{"Foo-1.00.tbz", true},
		{"Foo-1.00.zip", true},
		{"Foo-1.00.TAR.GZ", true},
		{"Foo-1.00.Zip", true},
		{"Foo-1.00.tar", false},
		{"Foo-1.00.gz", false},
		{"CHECKSUMS", false},
		{"Foo-1.00.meta", false},
		{"Foo-1.00.tar.xz", false},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, IsArchive(tc.path))
		})
	}
}

func TestIDRoot(t *testing.T) {
	assert.Equal(t, filepath.Join("/mirror", "authors", "id"), IDRoot("/mirror"))
}
