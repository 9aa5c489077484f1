// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package profile loads a visit profile from a YAML file. A profile supplies
// defaults for repository selection and iteration; command-line flags
// override it.
package profile

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

var (
	// ErrReadProfile is returned when the profile file cannot be read.
	ErrReadProfile = errors.New("failed to read profile file")
	// ErrParseProfile is returned when the profile cannot be unmarshaled.
	ErrParseProfile = errors.New("failed to parse profile file")
)

// Profile is the YAML definition of a visit run.
type Profile struct {
	// Root is the repository root path.
	Root string `yaml:"root"`
	// Match holds patterns that selected paths must all match.
	Match []string `yaml:"match,omitempty"`
	// Exclude holds patterns that exclude a path when any one matches.
	Exclude []string `yaml:"exclude,omitempty"`
	// Subtrees restricts selection to subtrees under authors/id.
	Subtrees []string `yaml:"subtrees,omitempty"`
	// AllFiles selects every regular file, not only recognized archives.
	AllFiles bool `yaml:"all_files,omitempty"`
	// Jobs is the worker count; zero or one means sequential.
	Jobs int `yaml:"jobs,omitempty"`
	// Exec is a shell command run in each distribution's entry directory.
	Exec string `yaml:"exec,omitempty"`
	// PreferBin selects the system-binary extraction strategy.
	PreferBin bool `yaml:"prefer_bin,omitempty"`
	// Quiet suppresses per-item diagnostics. Defaults to true when unset.
	Quiet *bool `yaml:"quiet,omitempty"`
}

// IsQuiet resolves the optional quiet field, defaulting to true.
func (p *Profile) IsQuiet() bool {
	if p.Quiet == nil {
		return true
	}

	return *p.Quiet
}

// Load reads and parses the profile at path.
func Load(fsys afero.Fs, path string) (*Profile, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadProfile, path, err)
	}

	p := new(Profile)
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseProfile, path, err)
	}

	return p, nil
}
