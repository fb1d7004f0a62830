// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package bootfiles locates bootable artifacts (kernels, initramfs images,
// microcode updates) in a boot directory and matches kernels to compatible
// initramfs files by filename-suffix convention.
package bootfiles
