// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/vivisn00b/timesnap-btrfs/pkg/errors"
)

const (
	unmountRetries = 10
	unmountDelay   = 2 * time.Second
)

// snapshotMount is a read-only mount of the whole btrfs tree (subvolid 5),
// giving the generator access to every snapshot's files regardless of which
// subvolume the running system booted from.
type snapshotMount struct {
	// Dir is the temporary mountpoint.
	Dir string
}

func mountSnapshotTree(device string) (*snapshotMount, error) {
	dir, err := os.MkdirTemp("", "timesnap-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMountFailure, "creating snapshot mountpoint", err)
	}

	if err := unix.Mount(device, dir, "btrfs", unix.MS_RDONLY, "subvolid=5"); err != nil {
		_ = os.Remove(dir)
		return nil, errors.WrapWithContext(errors.ErrCodeMountFailure,
			fmt.Sprintf("mounting %s read-only", device), err,
			map[string]any{"device": device, "mountpoint": dir})
	}

	slog.Debug("mounted snapshot tree", "device", device, "dir", dir)
	return &snapshotMount{Dir: dir}, nil
}

// Close unmounts and removes the mountpoint. Transient "device busy"
// failures are retried on a fixed interval; exhausting the retries leaves
// the mountpoint behind for manual cleanup and reports UNMOUNT_TIMEOUT,
// which callers treat as a warning rather than a failure.
func (m *snapshotMount) Close() error {
	var lastErr error
	for attempt := 1; attempt <= unmountRetries; attempt++ {
		lastErr = unix.Unmount(m.Dir, 0)
		if lastErr == nil {
			return os.Remove(m.Dir)
		}
		slog.Debug("unmount attempt failed", "dir", m.Dir, "attempt", attempt, "error", lastErr)
		time.Sleep(unmountDelay)
	}
	return errors.WrapWithContext(errors.ErrCodeUnmountTimeout,
		fmt.Sprintf("giving up unmounting %s after %d attempts", m.Dir, unmountRetries),
		lastErr, map[string]any{"mountpoint": m.Dir})
}
