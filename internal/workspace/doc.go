// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workspace provisions an isolated temporary directory per job,
// extracts the job's archive into it, and normalizes the result to a single
// entry directory regardless of how the archive unpacked. It supplies the
// default extract, enter and leave stage implementations.
package workspace
