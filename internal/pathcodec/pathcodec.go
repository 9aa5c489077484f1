// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pathcodec maps short distribution identifiers of the form
// "AUTHOR/NAME-VERSION.ext" to and from their absolute locations inside a
// mirror's two-level author-initial directory layout, and classifies
// recognized archive file types.
package pathcodec

import (
	"path/filepath"
	"regexp"
	"strings"
)

// archivePattern matches the recognized compressed-archive suffixes,
// case-insensitively.
var archivePattern = regexp.MustCompile(`(?i)\.(?:tar\.(?:gz|bz2|z)|tgz|tbz|zip)$`)

// IDRoot returns the directory under which all distributions live.
func IDRoot(root string) string {
	return filepath.Join(root, "authors", "id")
}

// Resolve returns the absolute path of the archive identified by id inside the
// repository rooted at root. The layout is
// root/authors/id/<L1>/<L2>/AUTHOR/FILENAME, where L1 and L2 are the first
// one and two bytes of AUTHOR.
//
// Resolve is total over well-formed identifiers. A malformed id (no slash)
// yields a garbage path; callers are expected to only pass identifiers
// produced by selection.
func Resolve(id, root string) string {
	author, file, _ := strings.Cut(id, "/")
	l1, l2 := shard(author)

	return filepath.Join(IDRoot(root), l1, l2, author, file)
}

// IsArchive reports whether path names a recognized compressed archive
// (.tar.gz, .tar.bz2, .tar.Z, .tgz, .tbz or .zip, any case).
func IsArchive(path string) bool {
	return archivePattern.MatchString(path)
}

func shard(author string) (string, string) {
	l1, l2 := author, author
	if len(author) > 0 {
		l1 = author[:1]
	}

	if len(author) > 1 {
		l2 = author[:2]
	}

	return l1, l2
}
