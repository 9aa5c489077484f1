// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pipeline defines the per-distribution job model and the fixed
// seven-stage callback chain (check, start, extract, enter, visit, leave,
// finish) executed once per selected item, with its short-circuit and
// propagation rules.
package pipeline
