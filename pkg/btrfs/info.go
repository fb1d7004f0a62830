// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package btrfs

import (
	"log/slog"
	"path/filepath"

	"github.com/vivisn00b/timesnap-btrfs/pkg/kvfile"
)

// sidecarName is the optional metadata file inside a snapshot-group directory.
const sidecarName = "info"

// ReadSidecar reads the optional sidecar metadata file in the given
// snapshot-group directory and returns the tag and description values.
// Absence or unparsable content yields MetadataUnknown for both, never an
// error.
func ReadSidecar(groupDir string) (tag, description string) {
	tag, description = MetadataUnknown, MetadataUnknown

	path := filepath.Join(groupDir, sidecarName)
	kv, err := kvfile.NewParser().Map(path)
	if err != nil {
		slog.Debug("no readable sidecar metadata", "path", path, "error", err)
		return tag, description
	}

	if v, found := kv["tags"]; found && v != "" {
		tag = v
	}
	if v, found := kv["comments"]; found && v != "" {
		description = v
	}
	return tag, description
}
