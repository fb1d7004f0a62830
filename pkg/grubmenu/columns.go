// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package grubmenu

import (
	"strings"
	"unicode/utf8"

	"github.com/vivisn00b/timesnap-btrfs/pkg/btrfs"
)

// Column identifies one submenu title column.
type Column string

const (
	ColumnDate        Column = "date"
	ColumnSnapshot    Column = "snapshot"
	ColumnTag         Column = "tag"
	ColumnDescription Column = "description"
)

// columnAccessors maps each column to its snapshot field. A closed lookup
// table, not reflection: the set of columns is fixed.
var columnAccessors = map[Column]func(btrfs.Snapshot) string{
	ColumnDate:        func(s btrfs.Snapshot) string { return s.OTime },
	ColumnSnapshot:    func(s btrfs.Snapshot) string { return s.Path },
	ColumnTag:         func(s btrfs.Snapshot) string { return s.Tag },
	ColumnDescription: func(s btrfs.Snapshot) string { return s.Description },
}

var columnLabels = map[Column]string{
	ColumnDate:        "Date",
	ColumnSnapshot:    "Snapshot",
	ColumnTag:         "Tag",
	ColumnDescription: "Description",
}

// ParseColumns resolves the configured column names, case-insensitively,
// preserving order. Invalid names are silently skipped; an empty result
// falls back to the full column set.
func ParseColumns(names []string) []Column {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		c := Column(strings.ToLower(strings.TrimSpace(name)))
		if _, known := columnAccessors[c]; known {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		cols = []Column{ColumnDate, ColumnSnapshot, ColumnTag, ColumnDescription}
	}
	return cols
}

// Layout renders pipe-delimited snapshot title rows with column widths
// computed as the widest value per column across all snapshots of the run.
type Layout struct {
	columns []Column
	widths  map[Column]int
}

// NewLayout computes column widths over the given snapshots.
func NewLayout(columns []Column, snaps []btrfs.Snapshot) *Layout {
	l := &Layout{
		columns: columns,
		widths:  make(map[Column]int, len(columns)),
	}
	for _, col := range columns {
		accessor := columnAccessors[col]
		width := 0
		for _, s := range snaps {
			if n := utf8.RuneCountInString(accessor(s)); n > width {
				width = n
			}
		}
		l.widths[col] = width
	}
	return l
}

// Row renders one snapshot's title row, each column left-aligned and padded
// to the computed width.
func (l *Layout) Row(s btrfs.Snapshot) string {
	cells := make([]string, 0, len(l.columns))
	for _, col := range l.columns {
		cells = append(cells, pad(columnAccessors[col](s), l.widths[col]))
	}
	return strings.Join(cells, " | ")
}

// HeaderRow renders the one-time document header with each column's label
// centered over the rendered data width.
func (l *Layout) HeaderRow() string {
	cells := make([]string, 0, len(l.columns))
	for _, col := range l.columns {
		cells = append(cells, center(columnLabels[col], l.widths[col]))
	}
	return strings.Join(cells, " | ")
}

// pad and center count runes, sidecar tags and descriptions are not
// guaranteed ASCII.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
