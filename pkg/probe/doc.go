// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package probe resolves the device and filesystem identities a boot entry
// refers to, reads the live bootloader defaults, and composes root mount
// options from a snapshot's recorded fstab.
package probe
