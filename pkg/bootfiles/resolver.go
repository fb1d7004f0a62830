// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bootfiles

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Built-in artifact filename patterns. User-supplied names are appended,
// never replace these.
var (
	kernelPatterns    = []string{"vmlinuz*", "vmlinux*", "kernel*"}
	initramfsPatterns = []string{"initramfs-*", "initrd-*"}
	microcodePatterns = []string{"intel-ucode*", "amd-ucode*", "early_ucode*", "microcode*"}
)

// ArtifactSet holds the bootable artifacts found in one boot directory.
// Empty Initramfs or Microcode means the component is absent for every
// kernel, not a per-kernel miss.
type ArtifactSet struct {
	Kernels   []string
	Initramfs []string
	Microcode []string
}

// Resolver scans boot directories for kernel, initramfs, and microcode
// files by filename pattern.
type Resolver struct {
	kernels   []glob.Glob
	initramfs []glob.Glob
	microcode []glob.Glob
}

// NewResolver compiles the built-in patterns plus the given custom file
// names. Custom names match literally (they are still compiled as globs, so
// user wildcards work too).
func NewResolver(customKernels, customInitramfs, customMicrocode []string) (*Resolver, error) {
	r := &Resolver{}
	var err error
	if r.kernels, err = compilePatterns(kernelPatterns, customKernels); err != nil {
		return nil, err
	}
	if r.initramfs, err = compilePatterns(initramfsPatterns, customInitramfs); err != nil {
		return nil, err
	}
	if r.microcode, err = compilePatterns(microcodePatterns, customMicrocode); err != nil {
		return nil, err
	}
	return r, nil
}

func compilePatterns(builtin, custom []string) ([]glob.Glob, error) {
	patterns := append(append([]string{}, builtin...), custom...)
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid artifact pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Resolve scans bootDir and returns the matching artifacts, sorted by name
// for deterministic output. A missing or unreadable directory yields an
// empty set, the caller decides whether that is fatal.
func (r *Resolver) Resolve(bootDir string) *ArtifactSet {
	set := &ArtifactSet{}

	entries, err := os.ReadDir(bootDir)
	if err != nil {
		slog.Debug("boot directory not readable", "dir", bootDir, "error", err)
		return set
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case matchAny(r.kernels, name):
			set.Kernels = append(set.Kernels, name)
		case matchAny(r.initramfs, name):
			set.Initramfs = append(set.Initramfs, name)
		case matchAny(r.microcode, name):
			set.Microcode = append(set.Microcode, name)
		}
	}

	sort.Strings(set.Kernels)
	sort.Strings(set.Initramfs)
	sort.Strings(set.Microcode)
	return set
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// versionSuffix returns the text after the first '-' in a filename. When the
// name has no dash the whole name is returned, mirroring the shell
// ${name#*-} convention the matching rules were defined against.
func versionSuffix(name string) string {
	if idx := strings.Index(name, "-"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// MatchesKernel reports whether an initramfs file is compatible with the
// given kernel version suffix: its own suffix must equal the version or one
// of its decorated forms.
func MatchesKernel(initramfs, kernelVersion string) bool {
	suffix := versionSuffix(initramfs)
	switch suffix {
	case kernelVersion,
		kernelVersion + ".img",
		kernelVersion + "-fallback.img",
		kernelVersion + ".gz":
		return true
	}
	return false
}
