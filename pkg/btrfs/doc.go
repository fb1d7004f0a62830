// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package btrfs enumerates filesystem snapshots through the btrfs tool,
// resolves their sidecar metadata, and applies the configured ignore rules.
package btrfs
