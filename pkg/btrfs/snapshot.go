// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package btrfs

import (
	"path/filepath"
	"slices"
)

// MetadataUnknown is the recorded value for sidecar fields that are absent
// or unreadable.
const MetadataUnknown = "N/A"

// Snapshot is one filesystem snapshot record. Immutable once listed.
// Path is relative to the filesystem root and never carries the root-tree
// marker prefix.
type Snapshot struct {
	// ID is the subvolume id.
	ID int
	// Gen is the subvolume generation at creation.
	Gen int
	// OTime is the creation timestamp as reported by the filesystem,
	// "YYYY-MM-DD HH:MM:SS".
	OTime string
	// Path is the subvolume path relative to the filesystem root.
	Path string
	// Tag is the sidecar "tags" field, MetadataUnknown when absent.
	Tag string
	// Description is the sidecar "comments" field, MetadataUnknown when absent.
	Description string
}

// GroupDir returns the snapshot-group directory (the parent of the snapshot
// subvolume) relative to the filesystem root, where the sidecar metadata
// file lives.
func (s Snapshot) GroupDir() string {
	return filepath.Dir(s.Path)
}

// IgnoreRules excludes snapshots from the generated menu. Matching is a
// skip, never a failure.
type IgnoreRules struct {
	// Paths are exact snapshot-path matches.
	Paths []string
	// Prefixes match the start of the snapshot path.
	Prefixes []string
	// Tags are exact sidecar-tag matches.
	Tags []string
	// Descriptions are exact sidecar-description matches.
	Descriptions []string
}

// ExcludesPath reports whether the snapshot path is ignored, checking exact
// matches before prefixes.
func (r IgnoreRules) ExcludesPath(s Snapshot) bool {
	if slices.Contains(r.Paths, s.Path) {
		return true
	}
	for _, prefix := range r.Prefixes {
		if prefix != "" && len(s.Path) >= len(prefix) && s.Path[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// ExcludesMetadata reports whether the snapshot's sidecar tag or description
// is ignored. Only meaningful after metadata has been resolved.
func (r IgnoreRules) ExcludesMetadata(s Snapshot) bool {
	return slices.Contains(r.Tags, s.Tag) || slices.Contains(r.Descriptions, s.Description)
}
