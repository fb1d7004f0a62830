// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package generator orchestrates a full generation pass over the live
// host: it mounts the btrfs tree read-only, enumerates snapshots, resolves
// boot artifacts in either the shared-boot or per-snapshot layout, and
// commits the synthesized menu through the validating writer. The pass is
// strictly sequential so the output is reproducible for an unchanged
// snapshot set.
package generator
