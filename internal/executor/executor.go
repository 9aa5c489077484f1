// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package executor dispatches one pipeline run per selected identifier,
// either sequentially or across a bounded pool of isolated workers, and
// blocks until every dispatched item has completed.
package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/distvisit/internal/ctxlog"
	"github.com/matt-FFFFFF/distvisit/internal/pipeline"
)

// RunFunc executes the pipeline for a single distribution identifier.
type RunFunc func(ctx context.Context, id string) error

// Run executes fn once per identifier. For workers <= 1 the identifiers run
// sequentially in list order. For workers > 1 they are distributed across up
// to workers concurrently running goroutines; ordering between concurrently
// processed items is unspecified. Run returns only after every dispatched
// item has completed.
//
// A failure (or panic) inside a single item never aborts the worker or the
// remaining items. Failures are aggregated into the returned error for
// diagnostic purposes only; there is no retry and callers treat the batch as
// successful regardless.
func Run(ctx context.Context, ids []string, workers int, fn RunFunc) error {
	if workers <= 1 {
		var errs *multierror.Error

		for _, id := range ids {
			if err := runOne(ctx, id, fn); err != nil {
				errs = multierror.Append(errs, err)
			}
		}

		return errs.ErrorOrNil()
	}

	if workers > len(ids) {
		workers = len(ids)
	}

	idCh := make(chan string)
	errCh := make(chan error, len(ids))
	wg := &sync.WaitGroup{}

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for id := range idCh {
				if err := runOne(ctx, id, fn); err != nil {
					errCh <- err
				}
			}
		}()
	}

	for _, id := range ids {
		idCh <- id
	}

	close(idCh)
	wg.Wait()
	close(errCh)

	var errs *multierror.Error
	for err := range errCh {
		errs = multierror.Append(errs, err)
	}

	return errs.ErrorOrNil()
}

// runOne is the per-item boundary: any panic raised below it is converted to
// an error so that iteration proceeds to the next item.
func runOne(ctx context.Context, id string, fn RunFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.Debug(ctx, "item panicked", "id", id, "panic", r)
			err = fmt.Errorf("%s: %w", id, pipeline.NewPanicError(r))
		}
	}()

	if err := fn(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}

	return nil
}
