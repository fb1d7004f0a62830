// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package btrfs

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/vivisn00b/timesnap-btrfs/pkg/errors"
)

// fsTreeMarker prefixes absolute subvolume paths in listing output and is
// stripped before paths are used.
const fsTreeMarker = "<FS_TREE>/"

// deletedPath marks subvolumes queued for deletion; they never appear in
// listing results.
const deletedPath = "DELETED"

const btrfsCommand = "btrfs"

// CheckFilesystem verifies that path sits on a btrfs filesystem.
func CheckFilesystem(path string) error {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return errors.Wrap(errors.ErrCodeUnsupportedFilesystem,
			fmt.Sprintf("failed to probe filesystem at %q", path), err)
	}
	if st.Type != unix.BTRFS_SUPER_MAGIC {
		return errors.Newf(errors.ErrCodeUnsupportedFilesystem,
			"%q is not on a btrfs filesystem", path)
	}
	return nil
}

// Lister enumerates snapshots of the filesystem mounted at Mount by running
// the btrfs subvolume listing tool.
type Lister struct {
	// Mount is the filesystem root the listing runs against.
	Mount string
	// SortOrder is passed through to the listing tool, e.g. "-rootid".
	SortOrder string
}

// List returns all snapshot subvolumes under the mount in tool-sorted order,
// with the root-tree marker stripped and deleted entries excluded.
func (l *Lister) List(ctx context.Context) ([]Snapshot, error) {
	bin, err := exec.LookPath(btrfsCommand)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeToolUnavailable,
			fmt.Sprintf("%s not found in PATH", btrfsCommand), err)
	}

	args := []string{"subvolume", "list", "-sa"}
	if l.SortOrder != "" {
		args = append(args, "--sort="+l.SortOrder)
	}
	args = append(args, l.Mount)

	cmd := exec.CommandContext(ctx, bin, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to list subvolumes under %q", l.Mount), err)
	}

	snaps := parseSubvolumeList(string(out))
	slog.Debug("listed snapshot subvolumes", "mount", l.Mount, "count", len(snaps))
	return snaps, nil
}

// parseSubvolumeList parses listing output lines of the form:
//
//	ID 256 gen 119 cgen 119 top level 5 otime 2024-01-01 12:00:00 path <FS_TREE>/@snapshots/1/snapshot
//
// Lines that do not follow the format are skipped.
func parseSubvolumeList(out string) []Snapshot {
	snaps := make([]Snapshot, 0)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var s Snapshot
		ok := true
		for i := 0; i < len(fields)-1; i++ {
			switch fields[i] {
			case "ID":
				id, err := strconv.Atoi(fields[i+1])
				if err != nil {
					ok = false
				}
				s.ID = id
			case "gen":
				gen, err := strconv.Atoi(fields[i+1])
				if err != nil {
					ok = false
				}
				s.Gen = gen
			case "otime":
				if i+2 < len(fields) {
					s.OTime = fields[i+1] + " " + fields[i+2]
				} else {
					s.OTime = fields[i+1]
				}
			case "path":
				s.Path = strings.TrimPrefix(fields[i+1], fsTreeMarker)
			}
		}

		if !ok || s.Path == "" || s.Path == deletedPath {
			continue
		}
		s.Tag = MetadataUnknown
		s.Description = MetadataUnknown
		snaps = append(snaps, s)
	}
	return snaps
}
