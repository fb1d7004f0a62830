// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package errors provides structured error types for programmatic handling
// of generation failures.
//
// Example usage:
//
//	err := errors.Wrap(
//	    errors.ErrCodeToolUnavailable,
//	    "btrfs not found in PATH",
//	    lookErr,
//	)
package errors
