// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func tenIDs() []string {
	ids := make([]string, 0, 10)
	for i := range 10 {
		ids = append(ids, fmt.Sprintf("AUTHOR/Dist-%d.00.tar.gz", i))
	}

	return ids
}

func TestRunSequentialPreservesOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	var seen []string

	err := Run(context.Background(), tenIDs(), 0, func(_ context.Context, id string) error {
		seen = append(seen, id)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, tenIDs(), seen)
}

func TestRunParallelEachExactlyOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex

	counts := make(map[string]int)

	err := Run(context.Background(), tenIDs(), 4, func(_ context.Context, id string) error {
		mu.Lock()
		defer mu.Unlock()
		counts[id]++

		return nil
	})
	require.NoError(t, err)
	require.Len(t, counts, 10)

	for id, n := range counts {
		assert.Equal(t, 1, n, "identifier %s must be visited exactly once", id)
	}
}

func TestRunParallelIsConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	ids := []string{"A/one", "A/two", "A/three", "A/four"}
	start := time.Now()

	err := Run(context.Background(), ids, 4, func(_ context.Context, _ string) error {
		time.Sleep(100 * time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 350*time.Millisecond,
		"expected parallel execution to be faster than serial")
}

func TestRunFailureDoesNotAbortBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex

	var seen []string

	err := Run(context.Background(), tenIDs(), 2, func(_ context.Context, id string) error {
		mu.Lock()
		seen = append(seen, id)
		mu.Unlock()

		if id == "AUTHOR/Dist-3.00.tar.gz" {
			return assert.AnError
		}

		return nil
	})

	assert.Len(t, seen, 10, "remaining items must still run after a failure")

	var merr *multierror.Error

	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 1)
}

func TestRunPanicCaughtAtItemBoundary(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex

	var n int

	err := Run(context.Background(), tenIDs(), 4, func(_ context.Context, id string) error {
		mu.Lock()
		n++
		mu.Unlock()

		if id == "AUTHOR/Dist-5.00.tar.gz" {
			panic("worker must survive this")
		}

		return nil
	})

	assert.Equal(t, 10, n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker must survive this")
}

func TestRunEmptyList(t *testing.T) {
	defer goleak.VerifyNone(t)

	err := Run(context.Background(), nil, 4, func(_ context.Context, _ string) error {
		t.Fatal("must not be called")
		return nil
	})
	require.NoError(t, err)
}

func TestRunWorkersCappedToItems(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex

	var n int

	err := Run(context.Background(), []string{"A/only"}, 16, func(_ context.Context, _ string) error {
		mu.Lock()
		n++
		mu.Unlock()

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
