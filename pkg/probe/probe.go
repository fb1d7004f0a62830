// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/google/uuid"

	"github.com/vivisn00b/timesnap-btrfs/pkg/errors"
)

const grubProbeCommand = "grub-probe"

// Probe resolves devices and filesystem identities through the bootloader's
// own probing tool, so the generated entries agree with what the bootloader
// will see at boot time.
type Probe struct{}

func (p *Probe) run(ctx context.Context, target, path string) (string, error) {
	bin, err := exec.LookPath(grubProbeCommand)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeToolUnavailable,
			fmt.Sprintf("%s not found in PATH", grubProbeCommand), err)
	}

	cmd := exec.CommandContext(ctx, bin, "--target="+target, path)
	out, err := cmd.Output()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("%s --target=%s %s failed", grubProbeCommand, target, path), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Device returns the block device backing the filesystem mounted at path.
func (p *Probe) Device(ctx context.Context, path string) (string, error) {
	return p.run(ctx, "device", path)
}

// FSUUID returns the filesystem UUID for the filesystem mounted at path.
// The returned value is validated; probing tools occasionally emit warnings
// on stdout and a malformed UUID must not end up in a boot entry.
func (p *Probe) FSUUID(ctx context.Context, path string) (string, error) {
	out, err := p.run(ctx, "fs_uuid", path)
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(out); err != nil {
		return "", fmt.Errorf("probe returned invalid filesystem UUID %q for %s: %w", out, path, err)
	}
	return out, nil
}

// FSIdentity returns the probed filesystem UUID without format validation.
// Boot partitions are often FAT, whose volume IDs are not RFC 4122 UUIDs,
// and the search directive accepts them as-is.
func (p *Probe) FSIdentity(ctx context.Context, path string) (string, error) {
	return p.run(ctx, "fs_uuid", path)
}

// IsLogicalVolume reports whether the device sits on a logical-volume
// abstraction, in which case UUID-based root selection is unreliable and
// the raw device path is used instead.
func IsLogicalVolume(device string) bool {
	return strings.HasPrefix(device, "/dev/mapper/") || strings.HasPrefix(device, "/dev/dm-")
}

// RootTarget selects the root= value for a boot entry: the stable filesystem
// UUID unless identifier-based boot is disabled, the UUID is unresolvable,
// or the device is a logical volume.
func (p *Probe) RootTarget(ctx context.Context, device string, uuidDisabled bool) string {
	if uuidDisabled || IsLogicalVolume(device) {
		return device
	}
	fsUUID, err := p.FSUUID(ctx, "/")
	if err != nil {
		slog.Debug("falling back to device path for root", "device", device, "error", err)
		return device
	}
	return "UUID=" + fsUUID
}
