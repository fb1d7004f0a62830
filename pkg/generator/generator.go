// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/vivisn00b/timesnap-btrfs/pkg/bootfiles"
	"github.com/vivisn00b/timesnap-btrfs/pkg/btrfs"
	"github.com/vivisn00b/timesnap-btrfs/pkg/config"
	"github.com/vivisn00b/timesnap-btrfs/pkg/errors"
	"github.com/vivisn00b/timesnap-btrfs/pkg/grubmenu"
	"github.com/vivisn00b/timesnap-btrfs/pkg/probe"
)

// Generator runs one complete generation pass: discover snapshots, resolve
// boot artifacts, synthesize menu entries, and commit the validated
// configuration.
//
// The function fields default to the real host integrations and exist so
// tests can run the pipeline against fixture trees.
type Generator struct {
	cfg     *config.Config
	checker grubmenu.Checker

	checkFS       func(path string) error
	mountTree     func(device string) (dir string, cleanup func(), err error)
	listSnapshots func(ctx context.Context, mount string) ([]btrfs.Snapshot, error)
	probeDevice   func(ctx context.Context, path string) (string, error)
	probeIdentity func(ctx context.Context, path string) (string, error)
	rootTarget    func(ctx context.Context, device string, uuidDisabled bool) string
}

// New creates a Generator wired to the live host.
func New(cfg *config.Config) *Generator {
	p := &probe.Probe{}
	return &Generator{
		cfg:     cfg,
		checker: grubmenu.ScriptChecker{},
		checkFS: btrfs.CheckFilesystem,
		mountTree: func(device string) (string, func(), error) {
			m, err := mountSnapshotTree(device)
			if err != nil {
				return "", nil, err
			}
			cleanup := func() {
				if closeErr := m.Close(); closeErr != nil {
					slog.Warn("snapshot tree left mounted, clean up manually",
						"mountpoint", m.Dir, "error", closeErr)
				}
			}
			return m.Dir, cleanup, nil
		},
		listSnapshots: func(ctx context.Context, mount string) ([]btrfs.Snapshot, error) {
			l := &btrfs.Lister{Mount: mount, SortOrder: cfg.SortOrder}
			return l.List(ctx)
		},
		probeDevice:   p.Device,
		probeIdentity: p.FSIdentity,
		rootTarget:    p.RootTarget,
	}
}

// Run executes one generation pass. The snapshot tree mount is released on
// every exit path; an unmount timeout is logged and never fails the run.
func (g *Generator) Run(ctx context.Context) error {
	if err := g.checkFS("/"); err != nil {
		return err
	}

	rootDevice, err := g.probeDevice(ctx, "/")
	if err != nil {
		return err
	}
	rootIdentity, err := g.probeIdentity(ctx, "/")
	if err != nil {
		return err
	}

	separate, bootIdentity := g.detectBootMode(ctx, rootIdentity)

	defaults := probe.ReadBootDefaults(g.cfg.GrubDefaultsPath)
	kernelArgs := defaults.KernelArgs(g.cfg.KernelParameters)
	rootTarget := g.rootTarget(ctx, rootDevice, defaults.DisableUUID)

	mountDir, cleanup, err := g.mountTree(rootDevice)
	if err != nil {
		return err
	}
	defer cleanup()

	snaps, err := g.listSnapshots(ctx, mountDir)
	if err != nil {
		return err
	}
	snaps = g.selectSnapshots(mountDir, snaps)
	if g.cfg.ShowTotalFound {
		slog.Info("snapshots selected", "count", len(snaps))
	}

	resolver, err := bootfiles.NewResolver(g.cfg.KernelNames, g.cfg.InitramfsNames, g.cfg.MicrocodeNames)
	if err != nil {
		return err
	}

	layout := grubmenu.NewLayout(grubmenu.ParseColumns(g.cfg.TitleColumns), snaps)
	doc := grubmenu.NewDocument(g.cfg, layout, "timesnap-"+bootIdentity)
	builder := grubmenu.NewBuilder(g.cfg)

	var shared *bootfiles.ArtifactSet
	if separate {
		shared = resolver.Resolve(g.cfg.BootDirName)
		if len(shared.Kernels) == 0 {
			return errors.Newf(errors.ErrCodeNoBootableKernels,
				"no kernels found in %s", g.cfg.BootDirName)
		}
	}

	for _, s := range snaps {
		ectx := grubmenu.EntryContext{
			Snapshot:   s,
			BootUUID:   bootIdentity,
			RootTarget: rootTarget,
			KernelArgs: kernelArgs,
			RootFlags:  probe.SnapshotRootFlags(filepath.Join(mountDir, s.Path), s.Path, g.cfg.RootFlags),
			GroupID:    "timesnap-" + bootIdentity,
		}

		set := shared
		if separate {
			ectx.BootDir = g.cfg.BootDirName
			ectx.BootPath = "/"
		} else {
			ectx.BootDir = filepath.Join(mountDir, s.Path, g.cfg.BootDirName)
			ectx.BootPath = path.Join("/", s.Path, g.cfg.BootDirName)
			set = resolver.Resolve(ectx.BootDir)
			if len(set.Kernels) == 0 {
				slog.Debug("snapshot has no bootable kernels", "path", s.Path)
				continue
			}
		}

		doc.AddGroup(s, builder.Entries(ectx, set))
	}

	w := &grubmenu.Writer{FinalPath: g.cfg.OutputPath(), Checker: g.checker}
	if err := w.Commit(ctx, doc); err != nil {
		return err
	}

	slog.Info("wrote bootloader configuration",
		"path", g.cfg.OutputPath(), "entries", doc.EntryCount())
	if doc.EntryCount() > config.EntryWarningThreshold {
		slog.Warn("generated an unusually large menu, consider lowering the limit",
			"entries", doc.EntryCount(), "threshold", config.EntryWarningThreshold)
	}
	return nil
}

// detectBootMode decides whether boot artifacts live on a separate boot
// filesystem or inside each snapshot. Detection compares filesystem
// identities; configuration can force the separate mode outright.
func (g *Generator) detectBootMode(ctx context.Context, rootIdentity string) (bool, string) {
	if g.cfg.ForceSeparateBoot {
		if id, err := g.probeIdentity(ctx, g.cfg.BootDirName); err == nil {
			return true, id
		}
		return true, rootIdentity
	}
	if err := g.checkFS(g.cfg.BootDirName); err != nil {
		id, idErr := g.probeIdentity(ctx, g.cfg.BootDirName)
		if idErr != nil {
			id = rootIdentity
		}
		return true, id
	}
	id, err := g.probeIdentity(ctx, g.cfg.BootDirName)
	if err != nil || id == rootIdentity {
		return false, rootIdentity
	}
	return true, id
}

// selectSnapshots applies ignore rules, attaches sidecar metadata, and
// truncates to the configured limit. A zero limit selects nothing, which
// downstream reports as NO_SNAPSHOTS_FOUND.
func (g *Generator) selectSnapshots(mountDir string, snaps []btrfs.Snapshot) []btrfs.Snapshot {
	rules := btrfs.IgnoreRules{
		Paths:        g.cfg.IgnorePaths,
		Prefixes:     g.cfg.IgnorePrefixes,
		Tags:         g.cfg.IgnoreTags,
		Descriptions: g.cfg.IgnoreDescriptions,
	}

	selected := make([]btrfs.Snapshot, 0, len(snaps))
	for _, s := range snaps {
		if len(selected) >= g.cfg.Limit {
			break
		}
		if rules.ExcludesPath(s) {
			continue
		}
		s.Tag, s.Description = btrfs.ReadSidecar(filepath.Join(mountDir, s.GroupDir()))
		if rules.ExcludesMetadata(s) {
			continue
		}
		if g.cfg.ShowSnapshotsFound {
			slog.Info("found snapshot", "date", s.OTime, "path", s.Path, "tag", s.Tag)
		}
		selected = append(selected, s)
	}
	return selected
}
