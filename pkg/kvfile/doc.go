// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package kvfile parses the small line-oriented files the generator reads:
// per-snapshot sidecar metadata (key = value), /etc/default/grub
// (KEY="value"), and fstab-style whitespace tables.
package kvfile
