// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package version carries the build identity shared by both binaries.
package version

// overridden during build with ldflags
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
