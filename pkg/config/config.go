// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file location consulted when none is given.
const DefaultPath = "/etc/timesnap/config.yaml"

const (
	// DefaultLimit is the maximum number of snapshots included in the menu.
	DefaultLimit = 50
	// EntryWarningThreshold is the total entry count above which a warning
	// is logged after generation completes.
	EntryWarningThreshold = 250
)

// Config captures every user-tunable knob for a generation run. Fields are
// populated once at startup (defaults, then YAML file, then environment and
// flags) and treated as immutable afterwards.
type Config struct {
	// Title of the outer submenu in the boot menu.
	Title string `yaml:"title"`

	// GrubDir is the directory holding the bootloader configuration,
	// where the generated fragment is written.
	GrubDir string `yaml:"grub_dir"`

	// ConfigName is the file name of the generated fragment inside GrubDir.
	ConfigName string `yaml:"config_name"`

	// BootDirName is the boot-artifacts subdirectory name inside a snapshot
	// (bounded mode) or the mounted boot partition path (separate mode).
	BootDirName string `yaml:"boot_dir"`

	// GrubDefaultsPath is the live bootloader default-settings file.
	GrubDefaultsPath string `yaml:"grub_defaults"`

	// Limit caps how many snapshots produce entries. 0 disables output.
	Limit int `yaml:"limit"`

	// SortOrder is passed through to the snapshot listing tool,
	// e.g. "-rootid", "+ogen", "-path".
	SortOrder string `yaml:"sort_order"`

	// ShowSnapshotsFound logs each included snapshot.
	ShowSnapshotsFound bool `yaml:"show_snapshots_found"`

	// ShowTotalFound logs the total number of included snapshots.
	ShowTotalFound bool `yaml:"show_total_found"`

	// Ignore lists. Paths are exact matches, prefixes match the start of the
	// snapshot path, tags and descriptions are exact sidecar-field matches.
	IgnorePaths        []string `yaml:"ignore_paths"`
	IgnorePrefixes     []string `yaml:"ignore_prefixes"`
	IgnoreTags         []string `yaml:"ignore_tags"`
	IgnoreDescriptions []string `yaml:"ignore_descriptions"`

	// Custom artifact file names, appended to the built-in patterns.
	KernelNames    []string `yaml:"kernel_names"`
	InitramfsNames []string `yaml:"initramfs_names"`
	MicrocodeNames []string `yaml:"microcode_names"`

	// AuthorizedUsers restricts the generated submenu to the listed
	// bootloader superusers. Empty with DisableProtection unset leaves the
	// bootloader default in force.
	AuthorizedUsers []string `yaml:"authorized_users"`

	// DisableProtection marks the generated submenu --unrestricted.
	DisableProtection bool `yaml:"disable_protection"`

	// RootFlags are extra root mount options appended to the flags recorded
	// in the snapshot's own fstab.
	RootFlags string `yaml:"rootflags"`

	// KernelParameters are extra kernel command line parameters for
	// snapshot entries.
	KernelParameters string `yaml:"kernel_parameters"`

	// EnableCryptodisk loads the bootloader LUKS modules in each entry.
	EnableCryptodisk bool `yaml:"enable_cryptodisk"`

	// TitleColumns selects and orders the submenu title columns. Any subset
	// and order of: date, snapshot, tag, description (case-insensitive,
	// invalid entries skipped).
	TitleColumns []string `yaml:"title_columns"`

	// ForceSeparateBoot skips detection and treats boot artifacts as living
	// on one shared, unsnapshotted boot location.
	ForceSeparateBoot bool `yaml:"force_separate_boot"`

	// FixedSubvolID emits a fixed subvolume-id directive in each entry.
	FixedSubvolID bool `yaml:"fixed_subvolid"`

	// WatchDir is the snapshot directory the daemon polls for changes.
	WatchDir string `yaml:"watch_dir"`
}

// Default returns the configuration used when no file or overrides are given.
func Default() *Config {
	return &Config{
		Title:              "Btrfs snapshots",
		GrubDir:            "/boot/grub",
		ConfigName:         "timesnap-btrfs.cfg",
		BootDirName:        "/boot",
		GrubDefaultsPath:   "/etc/default/grub",
		Limit:              DefaultLimit,
		SortOrder:          "-rootid",
		ShowSnapshotsFound: true,
		ShowTotalFound:     true,
		TitleColumns:       []string{"date", "snapshot", "tag", "description"},
		WatchDir:           "/.snapshots",
	}
}

// Load reads the YAML file at path over the defaults. A missing file at the
// default location is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	return cfg, nil
}

// OutputPath is the full path of the generated configuration fragment.
func (c *Config) OutputPath() string {
	return filepath.Join(c.GrubDir, c.ConfigName)
}
