// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package logging wraps the standard library slog package with timesnap
// defaults: structured JSON logging to stderr, environment-based log level
// configuration (LOG_LEVEL), module/version context injection, and source
// location tracking for debug logs.
//
// Logs go to stderr deliberately; stdout is reserved for the generated
// bootloader stub fragment.
//
// Usage:
//
//	logging.SetDefaultStructuredLoggerWithLevel("timesnap", version, "info")
//	slog.Info("generation complete", "entries", n)
package logging
