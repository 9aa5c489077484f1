// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

// Stash is an opaque, caller-populated mapping shared by every job in a run.
// It is read-only from the pipeline's perspective; stages may consult it for
// configuration (e.g. "prefer_bin") but must not mutate it, as workers are
// isolated and a mutation from one would not be observed by the others.
type Stash map[string]any

// Bool returns the boolean value stored under key, or false if the key is
// absent or not a bool.
func (s Stash) Bool(key string) bool {
	v, ok := s[key].(bool)
	return ok && v
}

// String returns the string value stored under key, or "" if the key is
// absent or not a string.
func (s Stash) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Job is the per-item record created fresh for every distribution at
// iteration time. A Job is never shared across workers and its temporary
// directory must not outlive it.
type Job struct {
	// ID is the distribution identifier, e.g. "DAGOLDEN/Foo-1.00.tar.gz".
	ID string
	// ArchivePath is the resolved absolute path of the archive.
	ArchivePath string
	// TempDir is the job's private temporary directory. It is owned by the
	// job and removed when the job completes, even on failure.
	TempDir string
	// WorkDir is the job's working context. Stages that spawn processes use
	// it as their working directory; changing it in one worker is never
	// visible to another.
	WorkDir string
	// Quiet suppresses per-item diagnostic output.
	Quiet bool
	// Stash is the run-wide shared stash, read-only to stages.
	Stash Stash
	// Results accumulates each stage's outcome keyed by stage name, so later
	// stages can inspect earlier ones.
	Results map[Stage]Outcome
}

// NewJob returns a Job for the given identifier with an initialized results
// map.
func NewJob(id, archivePath string, stash Stash, quiet bool) *Job {
	return &Job{
		ID:          id,
		ArchivePath: archivePath,
		Quiet:       quiet,
		Stash:       stash,
		Results:     make(map[Stage]Outcome, stageCount),
	}
}
