// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerReturnsDefaultWhenAbsent(t *testing.T) {
	ctx := context.Background()
	assert.Same(t, DefaultLogger, Logger(ctx))
}

func TestLoggerRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	ctx := New(context.Background(), logger)
	require.Same(t, logger, Logger(ctx))

	Info(ctx, "hello", "key", "value")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "key=value")
}

func TestNewNilLoggerFallsBack(t *testing.T) {
	ctx := New(context.Background(), nil)
	assert.Same(t, DefaultLogger, Logger(ctx))
}
