// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package grubmenu

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vivisn00b/timesnap-btrfs/pkg/bootfiles"
	"github.com/vivisn00b/timesnap-btrfs/pkg/btrfs"
	"github.com/vivisn00b/timesnap-btrfs/pkg/config"
)

// EntryContext carries everything one snapshot's entries need beyond the
// artifact set itself.
type EntryContext struct {
	// Snapshot the entries boot into.
	Snapshot btrfs.Snapshot
	// BootDir is the absolute directory holding the artifacts, used for
	// existence checks.
	BootDir string
	// BootPath is the artifact directory as the bootloader sees it,
	// relative to the boot filesystem root.
	BootPath string
	// BootUUID identifies the filesystem the bootloader searches for.
	BootUUID string
	// RootTarget is the root= value (UUID form or raw device path).
	RootTarget string
	// KernelArgs is the kernel command line tail.
	KernelArgs string
	// RootFlags is the composed rootflags= value.
	RootFlags string
	// GroupID is the stable identifier shared by all entries of the run.
	GroupID string
}

// Builder synthesizes menu entry blocks.
type Builder struct {
	cfg *config.Config
}

// NewBuilder creates a Builder over the run configuration.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg}
}

// Entries produces one self-contained entry block per boot combination of
// the artifact set. Kernels whose file has vanished since resolution are
// skipped entirely.
func (b *Builder) Entries(ctx EntryContext, set *bootfiles.ArtifactSet) []string {
	bindings := set.Bindings()
	blocks := make([]string, 0, len(bindings))

	for _, binding := range bindings {
		if _, err := os.Stat(filepath.Join(ctx.BootDir, binding.Kernel)); err != nil {
			slog.Debug("skipping vanished kernel", "kernel", binding.Kernel, "dir", ctx.BootDir)
			continue
		}
		blocks = append(blocks, b.entry(ctx, binding))
	}
	return blocks
}

func (b *Builder) entry(ctx EntryContext, binding bootfiles.Binding) string {
	var sb strings.Builder

	title := binding.Kernel
	if binding.Initramfs != "" {
		title += " " + binding.Initramfs
	}
	if binding.Microcode != "" {
		title += " " + binding.Microcode
	}

	fmt.Fprintf(&sb, "menuentry '%s' --class snapshot --class gnu-linux --class gnu --class os $menuentry_id_option '%s' {\n",
		escapeTitle(title), escapeTitle(ctx.GroupID))

	sb.WriteString("\tif [ x\"$feature_all_video_module\" = xy ]; then\n")
	sb.WriteString("\t\tinsmod all_video\n")
	sb.WriteString("\tfi\n")
	sb.WriteString("\tset gfxpayload=keep\n")
	sb.WriteString("\tinsmod gzio\n")
	sb.WriteString("\tinsmod part_gpt\n")
	sb.WriteString("\tinsmod part_msdos\n")
	sb.WriteString("\tinsmod btrfs\n")
	if b.cfg.EnableCryptodisk {
		sb.WriteString("\tinsmod cryptodisk\n")
		sb.WriteString("\tinsmod luks\n")
	}
	fmt.Fprintf(&sb, "\tsearch --no-floppy --fs-uuid --set=root %s\n", ctx.BootUUID)
	if b.cfg.FixedSubvolID {
		fmt.Fprintf(&sb, "\tset btrfs_subvolid=%d\n", ctx.Snapshot.ID)
	}

	fmt.Fprintf(&sb, "\techo 'Loading snapshot: %s %s'\n",
		escapeTitle(ctx.Snapshot.OTime), escapeTitle(ctx.Snapshot.Path))
	fmt.Fprintf(&sb, "\techo 'Loading kernel: %s'\n", escapeTitle(binding.Kernel))

	linuxLine := fmt.Sprintf("\tlinux \"%s\" root=%s",
		path.Join(ctx.BootPath, binding.Kernel), ctx.RootTarget)
	if args := strings.TrimSpace(ctx.KernelArgs); args != "" {
		linuxLine += " " + args
	}
	fmt.Fprintf(&sb, "%s rootflags=%s\n", linuxLine, ctx.RootFlags)

	if binding.Initramfs != "" || binding.Microcode != "" {
		images := make([]string, 0, 2)
		names := make([]string, 0, 2)
		// microcode loads first, the kernel expects it ahead of the initramfs
		if binding.Microcode != "" {
			images = append(images, fmt.Sprintf("\"%s\"", path.Join(ctx.BootPath, binding.Microcode)))
			names = append(names, binding.Microcode)
		}
		if binding.Initramfs != "" {
			images = append(images, fmt.Sprintf("\"%s\"", path.Join(ctx.BootPath, binding.Initramfs)))
			names = append(names, binding.Initramfs)
		}
		fmt.Fprintf(&sb, "\techo 'Loading initrd: %s'\n", escapeTitle(strings.Join(names, " ")))
		fmt.Fprintf(&sb, "\tinitrd %s\n", strings.Join(images, " "))
	}

	sb.WriteString("}")
	return sb.String()
}

// escapeTitle makes a string safe inside a single-quoted script token.
func escapeTitle(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}
