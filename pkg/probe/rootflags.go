// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/vivisn00b/timesnap-btrfs/pkg/kvfile"
)

// SnapshotRootFlags composes the root mount options for a snapshot entry:
// the flags recorded in the snapshot's own fstab (stripped of
// subvolume-selection options), then the configured extra flags, comma
// joined, with the snapshot's subvolume path appended as the final flag.
//
// The snapshot's fstab is read deliberately, not the live system's: the
// snapshot may predate mount-option changes and must boot the way it was
// recorded.
func SnapshotRootFlags(snapshotMount, snapshotPath, extraFlags string) string {
	flags := fstabRootOptions(filepath.Join(snapshotMount, "etc", "fstab"))

	if strings.TrimSpace(extraFlags) != "" {
		flags = append(flags, strings.TrimSpace(extraFlags))
	}
	flags = append(flags, "subvol="+snapshotPath)
	return strings.Join(flags, ",")
}

// fstabRootOptions returns the root-mount options recorded in the given
// fstab, minus subvol= and subvolid= selectors. Missing or unparsable fstab
// yields no options, never an error.
func fstabRootOptions(path string) []string {
	rows, err := kvfile.NewParser().Fields(path)
	if err != nil {
		slog.Debug("no readable fstab in snapshot", "path", path, "error", err)
		return nil
	}

	for _, row := range rows {
		if len(row) < 4 || row[1] != "/" {
			continue
		}
		opts := make([]string, 0, 4)
		for _, opt := range strings.Split(row[3], ",") {
			if strings.HasPrefix(opt, "subvol=") || strings.HasPrefix(opt, "subvolid=") {
				continue
			}
			if opt != "" {
				opts = append(opts, opt)
			}
		}
		return opts
	}
	return nil
}
