// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package selector walks a mirror's authors/id tree and produces a
// deterministic, ordered list of distribution identifiers matching a filter.
package selector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matt-FFFFFF/distvisit/internal/pathcodec"
	"github.com/spf13/afero"
)

// ErrBadPattern is returned when a match or exclude pattern fails to compile.
var ErrBadPattern = errors.New("invalid selection pattern")

// Filter is the pure input to Select.
type Filter struct {
	// Match holds regular expressions that an identifier path must all match
	// to be selected. Empty means match everything.
	Match []string
	// Exclude holds regular expressions; matching any one excludes the file.
	// Exclusion takes precedence over Match.
	Exclude []string
	// Subtrees restricts the walk to the named subtrees under authors/id,
	// e.g. "D/DA/DAGOLDEN". Empty means the whole tree.
	Subtrees []string
	// AllFiles selects every regular file rather than only recognized
	// archives.
	AllFiles bool
}

// Select walks the repository rooted at root and returns the ordered list of
// distribution identifiers accepted by the filter. Sibling directory entries
// are visited in lexicographic order at every level, so the result is
// deterministic and stable across runs on an unchanged filesystem.
func Select(ctx context.Context, fsys afero.Fs, root string, f Filter) ([]string, error) {
	match, err := compile(f.Match)
	if err != nil {
		return nil, err
	}

	exclude, err := compile(f.Exclude)
	if err != nil {
		return nil, err
	}

	idRoot := pathcodec.IDRoot(root)

	searchRoots := []string{idRoot}
	if len(f.Subtrees) > 0 {
		searchRoots = make([]string, 0, len(f.Subtrees))
		for _, sub := range f.Subtrees {
			searchRoots = append(searchRoots, filepath.Join(idRoot, sub))
		}
	}

	var ids []string

	for _, searchRoot := range searchRoots {
		ok, err := afero.DirExists(fsys, searchRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to stat search root %s: %w", searchRoot, err)
		}

		if !ok {
			continue
		}

		err = afero.Walk(fsys, searchRoot, func(path string, info os.FileInfo, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err != nil {
				return err
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			rel, err := filepath.Rel(idRoot, path)
			if err != nil {
				return fmt.Errorf("failed to get relative path for %s: %w", path, err)
			}

			rel = filepath.ToSlash(rel)

			if !f.AllFiles && !pathcodec.IsArchive(rel) {
				return nil
			}

			if matchesAny(exclude, rel) {
				return nil
			}

			if !matchesAll(match, rel) {
				return nil
			}

			// Strip the two author-initial shard components; files sitting
			// directly in a shard directory are not distributions.
			parts := strings.SplitN(rel, "/", 3)
			if len(parts) < 3 || !strings.Contains(parts[2], "/") {
				return nil
			}

			ids = append(ids, parts[2])

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", searchRoot, err)
		}
	}

	return ids, nil
}

func compile(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadPattern, p, err)
		}

		res = append(res, re)
	}

	return res, nil
}

func matchesAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}

	return false
}

func matchesAll(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if !re.MatchString(s) {
			return false
		}
	}

	return true
}
