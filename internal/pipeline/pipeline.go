// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/distvisit/internal/ctxlog"
)

// Stage names one of the seven pipeline steps.
type Stage string

// The seven stages, in execution order.
const (
	StageCheck   Stage = "check"
	StageStart   Stage = "start"
	StageExtract Stage = "extract"
	StageEnter   Stage = "enter"
	StageVisit   Stage = "visit"
	StageLeave   Stage = "leave"
	StageFinish  Stage = "finish"
)

const stageCount = 7

// Outcome is the recorded result of a single stage.
type Outcome struct {
	// OK is the stage's truthiness; a false outcome short-circuits according
	// to the transition rules in Run.
	OK bool
	// Path carries a stage-specific directory: the entry directory for
	// extract, the previous working context for enter.
	Path string
	// Err is the failure that made the outcome false, if any.
	Err error
}

// StageFunc is a pluggable stage operation.
type StageFunc func(ctx context.Context, job *Job) Outcome

// Stages holds one operation per pipeline stage. Nil fields default to
// Proceed, a no-op returning a true outcome; the coordinator substitutes the
// workspace implementations for extract, enter and leave before running.
type Stages struct {
	Check   StageFunc
	Start   StageFunc
	Extract StageFunc
	Enter   StageFunc
	Visit   StageFunc
	Leave   StageFunc
	Finish  StageFunc
}

// Proceed is the default stage operation: it does nothing and returns a true
// outcome.
func Proceed(_ context.Context, _ *Job) Outcome {
	return Outcome{OK: true}
}

// PanicError wraps a value recovered from a panicking stage callback.
type PanicError struct {
	v any
}

// Error implements the error interface for PanicError.
func (e *PanicError) Error() string {
	const prefix = "stage callback panic:"

	switch x := e.v.(type) {
	case string:
		return fmt.Sprintf("%s %s", prefix, x)
	case error:
		return fmt.Sprintf("%s %s", prefix, x.Error())
	default:
		return fmt.Sprintf("%s %v", prefix, x)
	}
}

// NewPanicError creates a new PanicError with the given recovered value.
func NewPanicError(v any) error {
	return &PanicError{v: v}
}

// Run executes the seven-stage pipeline for a single job.
//
// Transition rules:
//   - check false: the whole pipeline aborts, nothing else runs (not even
//     finish). This is how unwanted items are skipped cheaply.
//   - start's outcome is recorded but never inspected.
//   - extract false: jump directly to finish.
//   - enter false: jump directly to finish.
//   - visit and leave always run to completion once entered; their outcomes
//     are recorded only for instrumentation.
//   - finish always runs once check has passed, serving as guaranteed
//     teardown and reporting.
//
// Every outcome is stored in job.Results under the stage's name before the
// next stage runs. A panic raised from any stage callback is recovered at
// the per-job boundary, recorded as a false outcome for that stage, and
// never aborts the batch or the worker.
func Run(ctx context.Context, job *Job, stages Stages) {
	if !runStage(ctx, job, StageCheck, stages.Check).OK {
		return
	}

	runStage(ctx, job, StageStart, stages.Start)

	if runStage(ctx, job, StageExtract, stages.Extract).OK {
		if runStage(ctx, job, StageEnter, stages.Enter).OK {
			runStage(ctx, job, StageVisit, stages.Visit)
			runStage(ctx, job, StageLeave, stages.Leave)
		}
	}

	runStage(ctx, job, StageFinish, stages.Finish)
}

func runStage(ctx context.Context, job *Job, name Stage, fn StageFunc) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: NewPanicError(r)}
			job.Results[name] = out

			if !job.Quiet {
				ctxlog.Error(ctx, "stage callback panicked",
					"id", job.ID,
					"stage", string(name),
					"panic", r)
			}
		}
	}()

	if fn == nil {
		fn = Proceed
	}

	out = fn(ctx, job)
	job.Results[name] = out

	return out
}
