// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package grubmenu synthesizes GRUB menu entries for btrfs snapshots and
// commits them to the bootloader configuration directory.
//
// The package splits the work into three pieces. Layout computes the
// pipe-delimited submenu titles and the centered header row. Builder turns
// one snapshot's boot artifact combinations into self-contained menuentry
// blocks. Document assembles the blocks into a single outer submenu, and
// Writer stages, validates, and atomically promotes the rendered text,
// restoring the previous configuration if the syntax checker rejects the
// new one.
package grubmenu
