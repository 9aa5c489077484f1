// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package visitor is the top-level coordinator. It holds the repository root,
// the quiet flag, the shared stash and the selected file list, and exposes
// selection and iteration as its only operations.
package visitor
