// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"log/slog"
	"strings"

	"github.com/vivisn00b/timesnap-btrfs/pkg/kvfile"
)

// BootDefaults carries the settings read from the live bootloader
// default-settings file that influence generated entries.
type BootDefaults struct {
	// CmdlineLinux is GRUB_CMDLINE_LINUX.
	CmdlineLinux string
	// CmdlineLinuxDefault is GRUB_CMDLINE_LINUX_DEFAULT.
	CmdlineLinuxDefault string
	// DisableUUID is true when GRUB_DISABLE_LINUX_UUID is set to "true".
	DisableUUID bool
}

// KernelArgs joins the two command-line settings plus any extra parameters
// into the argument string appended to each kernel load directive.
func (d BootDefaults) KernelArgs(extra string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{d.CmdlineLinux, d.CmdlineLinuxDefault, extra} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

// ReadBootDefaults parses the bootloader default-settings file. A missing or
// unreadable file yields zero values; entries then boot with no extra args.
func ReadBootDefaults(path string) BootDefaults {
	var d BootDefaults

	kv, err := kvfile.NewParser(kvfile.WithTrimChars(`"'`)).Map(path)
	if err != nil {
		slog.Debug("no readable bootloader defaults", "path", path, "error", err)
		return d
	}

	d.CmdlineLinux = kv["GRUB_CMDLINE_LINUX"]
	d.CmdlineLinuxDefault = kv["GRUB_CMDLINE_LINUX_DEFAULT"]
	d.DisableUUID = strings.EqualFold(kv["GRUB_DISABLE_LINUX_UUID"], "true")
	return d
}
