// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package cli defines the command line surface of the timesnap generator
// and the timesnapd watcher daemon. Both commands share one flag set whose
// entries mirror the configuration file options and are also settable
// through TIMESNAP_* environment variables.
package cli
