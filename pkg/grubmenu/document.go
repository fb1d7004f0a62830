// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package grubmenu

import (
	"fmt"
	"strings"

	"github.com/vivisn00b/timesnap-btrfs/pkg/btrfs"
	"github.com/vivisn00b/timesnap-btrfs/pkg/config"
)

// Document accumulates the generated configuration for one run: a single
// outer submenu holding a one-time header row and one inner submenu per
// snapshot.
type Document struct {
	cfg     *config.Config
	layout  *Layout
	groupID string
	groups  []snapshotGroup
	entries int
}

type snapshotGroup struct {
	title  string
	blocks []string
}

// NewDocument creates an empty document for the run.
func NewDocument(cfg *config.Config, layout *Layout, groupID string) *Document {
	return &Document{cfg: cfg, layout: layout, groupID: groupID}
}

// AddGroup appends one snapshot's entry blocks under its own inner submenu.
// Groups with no blocks are dropped so empty submenus never render.
func (d *Document) AddGroup(s btrfs.Snapshot, blocks []string) {
	if len(blocks) == 0 {
		return
	}
	d.groups = append(d.groups, snapshotGroup{
		title:  d.layout.Row(s),
		blocks: blocks,
	})
	d.entries += len(blocks)
}

// EntryCount reports how many entry blocks the document holds.
func (d *Document) EntryCount() int {
	return d.entries
}

// Render produces the complete configuration fragment text.
func (d *Document) Render() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "submenu '%s'%s $menuentry_id_option '%s' {\n",
		escapeTitle(d.cfg.Title), d.protectionFlags(), escapeTitle(d.groupID))

	// The header row is an inert submenu. It renders as a menu line but
	// selecting it does nothing.
	fmt.Fprintf(&sb, "\tsubmenu '---| %s |---' {\n\t\ttrue\n\t}\n", escapeTitle(d.layout.HeaderRow()))

	for _, g := range d.groups {
		fmt.Fprintf(&sb, "\tsubmenu '%s' {\n", escapeTitle(g.title))
		for _, block := range g.blocks {
			sb.WriteString(indent(block, "\t\t"))
			sb.WriteString("\n")
		}
		sb.WriteString("\t}\n")
	}

	sb.WriteString("}\n")
	return sb.String()
}

// protectionFlags renders the access-control suffix of the outer submenu
// line. Disabling protection wins over a user list.
func (d *Document) protectionFlags() string {
	if d.cfg.DisableProtection {
		return " --unrestricted"
	}
	if len(d.cfg.AuthorizedUsers) > 0 {
		return fmt.Sprintf(" --users %s", strings.Join(d.cfg.AuthorizedUsers, ","))
	}
	return ""
}

// StubFragment returns the short loader script that conditionally sources
// the generated configuration. It is meant for stdout so the caller's
// bootloader hook can capture it.
func StubFragment(configName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "if [ -s \"${prefix}/%s\" ]; then\n", configName)
	fmt.Fprintf(&sb, "\tsource \"${prefix}/%s\"\n", configName)
	sb.WriteString("fi\n")
	return sb.String()
}

func indent(block, prefix string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
